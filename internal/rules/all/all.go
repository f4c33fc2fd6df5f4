// Package all imports every built-in rule package to trigger its
// init() registration. Import this package with a blank identifier to
// enable every built-in rule:
//
//	import _ "github.com/wharflab/solidguard/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration
	_ "github.com/wharflab/solidguard/internal/rules/compilerversion"
	_ "github.com/wharflab/solidguard/internal/rules/dividebeforemultiply"
	_ "github.com/wharflab/solidguard/internal/rules/hardcodedsecret"
	_ "github.com/wharflab/solidguard/internal/rules/integeroverflow"
	_ "github.com/wharflab/solidguard/internal/rules/multipleconstructors"
	_ "github.com/wharflab/solidguard/internal/rules/reentrancy"
)
