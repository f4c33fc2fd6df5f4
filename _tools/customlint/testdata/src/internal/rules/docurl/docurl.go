package docurl

// Metadata represents a rule's metadata (simplified for testing).
type Metadata struct {
	ID     string
	DocURL string
}

// Bad: empty DocURL.
var badMetaEmpty = Metadata{
	ID:     "security/foo",
	DocURL: "", // want `DocURL must not be empty`
}

// Bad: not an https:// URL.
var badMetaScheme = Metadata{
	ID:     "security/bar",
	DocURL: "http://example.com/rule", // want `DocURL http://example\.com/rule must be an https:// URL`
}

// Good: a proper https:// literal.
var goodMeta = Metadata{
	ID:     "security/baz",
	DocURL: "https://docs.soliditylang.org/en/latest/security-considerations.html",
}
