package panel

import (
	"dropletbot/internal/access"
	"dropletbot/internal/confirm"
	"dropletbot/internal/domain"
	"errors"

	"github.com/bwmarrin/discordgo"
)

const (
	ButtonResizePeak = "resize_1gb"
	ButtonResizeLow  = "resize_512mb"
	ButtonPowerOn    = "poweron"
	ButtonPowerOff   = "poweroff"
	ButtonReboot     = "reboot"

	DeniedText = "You do not have permission to use this."
)

var (
	ErrUnknownButton = errors.New("unknown panel button")
	ErrUnknownActor  = errors.New("press has no user")
)

type button struct {
	id     string
	label  string
	style  discordgo.ButtonStyle
	action domain.Action
}

var buttons = []button{
	{ButtonResizePeak, "Resize (1GB)", discordgo.PrimaryButton, domain.Resize(domain.TierPeakUsage)},
	{ButtonResizeLow, "Resize (512MB)", discordgo.PrimaryButton, domain.Resize(domain.TierLowUsage)},
	{ButtonPowerOn, "Power On", discordgo.SuccessButton, domain.PowerOn()},
	{ButtonPowerOff, "Power Off", discordgo.DangerButton, domain.PowerOff()},
	{ButtonReboot, "Reboot", discordgo.SecondaryButton, domain.Reboot()},
}

// IsButton reports whether customID belongs to the panel.
func IsButton(customID string) bool {
	_, ok := lookup(customID)
	return ok
}

func lookup(customID string) (button, bool) {
	for _, b := range buttons {
		if b.id == customID {
			return b, true
		}
	}
	return button{}, false
}

// Components is the button row attached to every displayed panel.
func Components() []discordgo.MessageComponent {
	row := make([]discordgo.MessageComponent, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, discordgo.Button{Label: b.label, Style: b.style, CustomID: b.id})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}

type Actor struct {
	ID    string
	Roles domain.RoleSet
}

// Reply is what the pressing actor sees privately. Pending is nil when the press was
// denied.
type Reply struct {
	Content string
	Pending *confirm.Workflow
}

// Surface is the long-lived control panel. It keeps no per-press state itself.
type Surface struct {
	gate      *access.Gate
	workflows *confirm.Manager
}

func NewSurface(gate *access.Gate, workflows *confirm.Manager) *Surface {
	return &Surface{gate: gate, workflows: workflows}
}

func (s *Surface) Press(customID string, actor Actor) (Reply, error) {
	b, ok := lookup(customID)
	if !ok {
		return Reply{}, ErrUnknownButton
	}
	if actor.ID == "" {
		return Reply{}, ErrUnknownActor
	}
	if !s.gate.Allow(actor.Roles) {
		return Reply{Content: DeniedText}, nil
	}
	w := s.workflows.Request(b.action, actor.ID)
	return Reply{Content: w.Prompt(), Pending: w}, nil
}
