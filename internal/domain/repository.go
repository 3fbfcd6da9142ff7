package domain

type SettingsRepository interface {
	LoadSettings() (Settings, error)
	SaveSettings(s Settings) error
}
