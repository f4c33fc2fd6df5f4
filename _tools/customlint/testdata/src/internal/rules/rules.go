package rules

// GoodRule is a documented rule struct and passes the check.
type GoodRule struct{}

type UndocumentedRule struct{} // want `exported rule struct UndocumentedRule should have a documentation comment`

// unexportedRule is skipped because it is not exported.
type unexportedRule struct{}

// Helper is exported but not Rule-suffixed, so it is ignored.
type Helper struct{}
