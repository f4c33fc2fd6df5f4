package ast

// Kind tags the Solidity construct a Node represents: one Node struct,
// composition of narrow fields, no per-kind struct hierarchy.
type Kind int

const (
	KindInvalid Kind = iota
	KindSourceUnit
	KindPragmaDirective
	KindImportDirective
	KindContractDefinition // SubKind: "contract" | "interface" | "library"
	KindFunctionDefinition // SubKind: "constructor" | "fallback" | "receive" | "function"
	KindModifierDefinition
	KindStateVariableDeclaration
	KindEventDefinition
	KindStructDefinition
	KindEnumDefinition
	KindUsingForDirective
	KindBlock
	KindExpressionStatement
	KindReturnStatement
	KindIfStatement
	KindVariableDeclarationStatement
	KindBinaryOperation // Operator: "+", "-", "*", "/", "%", "==", ...
	KindUnaryOperation
	KindAssignment
	KindFunctionCall
	KindMemberAccess
	KindIndexAccess
	KindIdentifier
	KindLiteral // Value holds the raw token text; SubKind distinguishes string/number/bool
	KindTypeName
	KindParameter
	KindParameterList
)

// String returns a human-readable tag name, used in dispatch-table logs and
// test failure messages.
func (k Kind) String() string {
	switch k {
	case KindSourceUnit:
		return "SourceUnit"
	case KindPragmaDirective:
		return "PragmaDirective"
	case KindImportDirective:
		return "ImportDirective"
	case KindContractDefinition:
		return "ContractDefinition"
	case KindFunctionDefinition:
		return "FunctionDefinition"
	case KindModifierDefinition:
		return "ModifierDefinition"
	case KindStateVariableDeclaration:
		return "StateVariableDeclaration"
	case KindEventDefinition:
		return "EventDefinition"
	case KindStructDefinition:
		return "StructDefinition"
	case KindEnumDefinition:
		return "EnumDefinition"
	case KindUsingForDirective:
		return "UsingForDirective"
	case KindBlock:
		return "Block"
	case KindExpressionStatement:
		return "ExpressionStatement"
	case KindReturnStatement:
		return "ReturnStatement"
	case KindIfStatement:
		return "IfStatement"
	case KindVariableDeclarationStatement:
		return "VariableDeclarationStatement"
	case KindBinaryOperation:
		return "BinaryOperation"
	case KindUnaryOperation:
		return "UnaryOperation"
	case KindAssignment:
		return "Assignment"
	case KindFunctionCall:
		return "FunctionCall"
	case KindMemberAccess:
		return "MemberAccess"
	case KindIndexAccess:
		return "IndexAccess"
	case KindIdentifier:
		return "Identifier"
	case KindLiteral:
		return "Literal"
	case KindTypeName:
		return "TypeName"
	case KindParameter:
		return "Parameter"
	case KindParameterList:
		return "ParameterList"
	default:
		return "Invalid"
	}
}
