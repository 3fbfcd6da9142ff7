package domain

import (
	"fmt"
	"strings"
)

type ActionKind string

const (
	ActionPowerOn  ActionKind = "power_on"
	ActionPowerOff ActionKind = "power_off"
	ActionReboot   ActionKind = "reboot"
	ActionResize   ActionKind = "resize"
)

type Tier string

const (
	TierLowUsage  Tier = "low"
	TierPeakUsage Tier = "peak"
)

func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "low_usage", "lowusage":
		return TierLowUsage, nil
	case "peak", "peak_usage", "peakusage":
		return TierPeakUsage, nil
	}
	return "", fmt.Errorf("unknown size tier %q", s)
}

// Action is a requested droplet operation. Tier is only set for resizes.
type Action struct {
	Kind ActionKind
	Tier Tier
}

func PowerOn() Action  { return Action{Kind: ActionPowerOn} }
func PowerOff() Action { return Action{Kind: ActionPowerOff} }
func Reboot() Action   { return Action{Kind: ActionReboot} }

func Resize(tier Tier) Action {
	return Action{Kind: ActionResize, Tier: tier}
}

// ParseAction accepts the wire names used by the remote API. A resize needs a tier.
func ParseAction(kind string, tier string) (Action, error) {
	switch ActionKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ActionPowerOn:
		return PowerOn(), nil
	case ActionPowerOff:
		return PowerOff(), nil
	case ActionReboot:
		return Reboot(), nil
	case ActionResize:
		t, err := ParseTier(tier)
		if err != nil {
			return Action{}, err
		}
		return Resize(t), nil
	}
	return Action{}, fmt.Errorf("unknown action %q", kind)
}

func (a Action) String() string {
	if a.Kind == ActionResize {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Tier)
	}
	return string(a.Kind)
}
