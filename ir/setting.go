package ir

import (
	"fmt"
	"strings"
)

const capsPrefix = "sk_Caps."

// capabilityDefaults lists every known capability and the value assumed
// when a configured capability set omits it.
var capabilityDefaults = map[string]bool{
	"integerSupport":                              true,
	"floatIs32Bits":                               true,
	"builtinFMASupport":                           true,
	"builtinDeterminantSupport":                   true,
	"canUseFractForNegativeValues":                true,
	"canUseMinAndAbsTogether":                     true,
	"mustDoOpBetweenFloorAndAbs":                  false,
	"mustGuardDivisionEvenAfterExplicitZeroCheck": false,
	"atan2ImplementedAsAtanYOverX":                false,
	"removePowWithConstantExponent":               false,
	"rewriteMatrixVectorMultiply":                 false,
	"mustForceNegatedAtanParamToFloat":            false,
	"inBlendModesFailRandomlyForAllZeroVec":       false,
	"unfoldShortCircuitAsTernary":                 false,
	"emulateAbsIntFunction":                       false,
}

// KnownSetting reports whether name is a recognized setting.
func KnownSetting(name string) bool {
	short, ok := strings.CutPrefix(name, capsPrefix)
	if !ok {
		return false
	}
	_, ok = capabilityDefaults[short]
	return ok
}

// NewSettingExpression creates an unfolded setting node.
func NewSettingExpression(name string, typ *Type) *SettingExpression {
	return &SettingExpression{name: name, typ: typ}
}

// ConvertSetting resolves a setting name. With capabilities configured the
// setting folds to a boolean literal; otherwise the setting node is kept so
// it can be resolved later.
func ConvertSetting(ctx *Context, name string) (Expression, error) {
	if !KnownSetting(name) {
		return nil, fmt.Errorf("unknown setting %q", name)
	}
	value, enabled := ctx.Capability(strings.TrimPrefix(name, capsPrefix))
	if !enabled {
		return NewSettingExpression(name, ctx.Types.Bool), nil
	}
	return NewBoolLiteral(ctx.Types.Bool, value), nil
}
