package domain

// Well-known settings keys.
const (
	SettingKeyClient   = "settings"  // JSON blob of client settings
	SettingKeyLastUser = "last_user" // id of the most recently selected user
)

// Setting is a single key-value entry in the settings store.
type Setting struct {
	Key   string `json:"key" gorm:"primarykey"`
	Value string `json:"value"`
}

// ClientSettings is the settings JSON stored under SettingKeyClient.
type ClientSettings struct {
	APIEndpoint      string `json:"apiEndpoint"`
	Model            string `json:"model"`
	SystemPrompt     string `json:"systemPrompt"`
	StreamingEnabled bool   `json:"streamingEnabled"`
}
