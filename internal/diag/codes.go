package diag

import "fmt"

// Code is a compact numeric diagnostic identifier. Its hundreds range
// selects the subsystem that raised it; ID() renders it as a stable
// "XXX####" id independent of message wording.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic checker: typing, borrow/region discipline, throw contracts (1000-1099).
	SemaInfo                  Code = 1000
	SemaTypeMismatch           Code = 1001
	SemaInvalidBinaryOperands  Code = 1002
	SemaInvalidUnaryOperand    Code = 1003
	SemaConditionNotBool       Code = 1004
	SemaArrayElemMismatch      Code = 1005
	SemaArrayIndexNotInt       Code = 1006
	SemaCallArityMismatch      Code = 1007
	SemaCallArgTypeMismatch    Code = 1008
	SemaUnknownKeywordArg      Code = 1009
	SemaUnresolvedSymbol       Code = 1010
	SemaDuplicateBinding       Code = 1011
	SemaThrowPayloadNotDV      Code = 1012
	SemaNothrowMayThrow        Code = 1013
	SemaUndeclaredThrowEvent   Code = 1014
	SemaFieldNotFound          Code = 1015
	SemaNotAddressable         Code = 1016
	SemaAssignTypeMismatch     Code = 1017

	// Borrow / region checker (1100-1199).
	SemaBorrowConflictMutable   Code = 1100
	SemaBorrowConflictImmutable Code = 1101
	SemaBorrowMoveWhileLive     Code = 1102
	SemaBorrowAssignWhileLive   Code = 1103
	SemaBorrowOfTemporary       Code = 1104

	// MIR pre-analyses / verifier (1200-1299).
	MirUndefinedValue        Code = 1200
	MirRedefinedValue        Code = 1201
	MirMoveOfMoved           Code = 1202
	MirMoveOfDropped         Code = 1203
	MirUseAfterDrop          Code = 1204
	MirBlockParamArityMismatch Code = 1205
	MirBlockParamTypeMismatch  Code = 1206
	MirUnknownBlockTarget      Code = 1207
	MirErrorEdgeTypeMismatch   Code = 1208
	MirUnreachableBlock        Code = 1209
	MirOperandUndefinedAtExit  Code = 1210

	// SSA construction (1300-1399).
	SsaBackedgeRejected     Code = 1300
	SsaAmbiguousMerge       Code = 1301
	SsaUndominatedUse       Code = 1302

	// Stage-4 invariant checks (1400-1499).
	EffThrowSetMismatch  Code = 1400
	EffMissingErrorEdge  Code = 1401
	EffReturnShapeBad    Code = 1402

	// LLVM lowering contract (1500-1599).
	CodegenUnsupportedType Code = 1500
	CodegenUnsupportedOp   Code = 1501

	// Package container / tooling: format, signing, trust, distribution (1600-1699).
	PkgMalformedHeader     Code = 1600
	PkgDigestMismatch      Code = 1601
	PkgSignatureInvalid    Code = 1602
	PkgUntrustedKey        Code = 1603
	PkgManifestInvalid     Code = 1604
	PkgVersionConflict     Code = 1605
	PkgLockMismatch        Code = 1606
	PkgSourceUnavailable   Code = 1607
	PkgNameMismatch        Code = 1608

	// Project / module graph (1700-1799).
	ProjDuplicateModule   Code = 1700
	ProjMissingModule     Code = 1701
	ProjImportCycle       Code = 1702
	ProjInvalidImportPath Code = 1703

	// I/O (1800-1899).
	IOLoadFileError Code = 1800

	// Observability / pipeline timings (1900-1999).
	ObsInfo    Code = 1900
	ObsTimings Code = 1901
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	SemaInfo:                    "Semantic information",
	SemaTypeMismatch:            "Type mismatch",
	SemaInvalidBinaryOperands:   "Invalid operands for binary operator",
	SemaInvalidUnaryOperand:     "Invalid operand for unary operator",
	SemaConditionNotBool:        "Condition must be Bool",
	SemaArrayElemMismatch:       "Array literal elements must share a type",
	SemaArrayIndexNotInt:        "Array index must be Int",
	SemaCallArityMismatch:       "Call argument count does not match signature",
	SemaCallArgTypeMismatch:     "Call argument type does not match parameter",
	SemaUnknownKeywordArg:       "Unknown keyword argument",
	SemaUnresolvedSymbol:       "Unresolved symbol",
	SemaDuplicateBinding:        "Duplicate binding in scope",
	SemaThrowPayloadNotDV:       "Thrown value is not a diagnostic-value type",
	SemaNothrowMayThrow:         "Function declared nothrow may transitively throw",
	SemaUndeclaredThrowEvent:    "Thrown event is not in the function's declared set",
	SemaFieldNotFound:           "Field not found",
	SemaNotAddressable:          "Expression is not addressable",
	SemaAssignTypeMismatch:      "Assignment type must equal binding type",
	SemaBorrowConflictMutable:   "Mutable borrow conflicts with a live borrow of the same place",
	SemaBorrowConflictImmutable: "Immutable borrow conflicts with a live mutable borrow",
	SemaBorrowMoveWhileLive:     "Move of a place with a live borrow",
	SemaBorrowAssignWhileLive:   "Assignment to a place with a live borrow",
	SemaBorrowOfTemporary:       "Cannot borrow a non-addressable temporary",
	MirUndefinedValue:           "Use of undefined value",
	MirRedefinedValue:           "Destination already defined",
	MirMoveOfMoved:              "Move of an already-moved value",
	MirMoveOfDropped:            "Move of a dropped value",
	MirUseAfterDrop:             "Use of a dropped value",
	MirBlockParamArityMismatch:  "Branch argument count does not match target block parameters",
	MirBlockParamTypeMismatch:   "Branch argument type does not match target block parameter",
	MirUnknownBlockTarget:       "Branch targets an unknown block",
	MirErrorEdgeTypeMismatch:    "Error edge's first parameter must have Error type",
	MirUnreachableBlock:         "Block is unreachable from entry",
	MirOperandUndefinedAtExit:   "Terminator operand undefined at block exit",
	SsaBackedgeRejected:         "Control-flow edge forms a backedge; loops are not supported in SSA v1",
	SsaAmbiguousMerge:           "Merge point has no consistent set of incoming values",
	SsaUndominatedUse:           "Use is not dominated by its definition",
	EffThrowSetMismatch:         "Declared thrown set does not match computed throw summary",
	EffMissingErrorEdge:         "Fallible call lacks a required error edge",
	EffReturnShapeBad:           "Return value shape does not match function result type",
	CodegenUnsupportedType:      "Type has no LLVM v1 lowering",
	CodegenUnsupportedOp:        "Operation has no LLVM v1 lowering",
	PkgMalformedHeader:          "Malformed package container header",
	PkgDigestMismatch:           "Content digest does not match recorded hash",
	PkgSignatureInvalid:         "Signature verification failed",
	PkgUntrustedKey:             "Signing key is not present in the trust store",
	PkgManifestInvalid:          "Package manifest is invalid",
	PkgVersionConflict:          "Version already present in repository index",
	PkgLockMismatch:             "Lockfile entry does not match resolved package",
	PkgSourceUnavailable:        "Configured source is unavailable",
	PkgNameMismatch:             "Package identity does not match manifest",
	ProjDuplicateModule:         "Duplicate module definition",
	ProjMissingModule:           "Missing module",
	ProjImportCycle:             "Import cycle detected",
	ProjInvalidImportPath:       "Invalid import path",
	IOLoadFileError:             "I/O load file error",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 1100:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 1100 && ic < 1200:
		return fmt.Sprintf("BRW%04d", ic)
	case ic >= 1200 && ic < 1300:
		return fmt.Sprintf("MIR%04d", ic)
	case ic >= 1300 && ic < 1400:
		return fmt.Sprintf("SSA%04d", ic)
	case ic >= 1400 && ic < 1500:
		return fmt.Sprintf("EFF%04d", ic)
	case ic >= 1500 && ic < 1600:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 1600 && ic < 1700:
		return fmt.Sprintf("PKG%04d", ic)
	case ic >= 1700 && ic < 1800:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 1800 && ic < 1900:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 1900 && ic < 2000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
