package theme

// Theming for the zone editor: palette constants plus SetDark, which
// activates the base theme and configures the semantic widget styles.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg      = "#f7f9fb" // app background
	ColorSurface = "#ffffff" // panels, cards
	ColorPrimary = "#2563eb" // buttons, accents
	ColorDanger  = "#dc2626"
	ColorAccent  = "#10b981"
	ColorWarning = "#f59e0b"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleAccentLabel   = "accent.TLabel"
	StyleStateLabel    = "state.TLabel"
	StyleErrorLabel    = "error.TLabel"
	StyleToggleOn      = "on.TButton"
)

// SetDark selects dark or light mode and (re)applies styles.
func SetDark(dark bool) { applyStyles(dark) }

// applyStyles encapsulates palette & style configuration for light/dark.
func applyStyles(dark bool) {
	_ = ActivateTheme("azure light") // baseline metrics
	if dark {
		App.Configure(Background("#0f172a"))
	} else {
		App.Configure(Background(ColorBg))
	}

	// Primary button
	StyleConfigure(StylePrimaryButton,
		Background(func() string {
			if dark {
				return "#3b82f6"
			}
			return ColorPrimary
		}()),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	// Danger button
	StyleConfigure(StyleDangerButton,
		Background(func() string {
			if dark {
				return "#ef4444"
			}
			return ColorDanger
		}()),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	// Accent label
	StyleConfigure(StyleAccentLabel,
		Foreground(func() string {
			if dark {
				return "#3b82f6"
			}
			return ColorPrimary
		}()),
		Background(func() string {
			if dark {
				return "#1e293b"
			}
			return ColorSurface
		}()),
		Padding("2p 1p"),
	)
	// Notifier error line
	StyleConfigure(StyleErrorLabel,
		Foreground(func() string {
			if dark {
				return "#ef4444"
			}
			return ColorDanger
		}()),
		Padding("2p 1p"),
	)
	// Pressed-in toggle (edit mode, display switches)
	StyleConfigure(StyleToggleOn,
		Background(ColorWarning),
		Foreground("black"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("sunken"),
	)
	// Sync status label
	StyleConfigure(StyleStateLabel,
		Foreground(func() string {
			if dark {
				return "#f0fdf4"
			}
			return "white"
		}()),
		Background(func() string {
			if dark {
				return "#10b981"
			}
			return ColorAccent
		}()),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
