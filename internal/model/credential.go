package model

// UserCredential maps a chat user to the api key of the remote finance
// service. At most one credential exists per username; re-login replaces
// the stored key.
type UserCredential struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}
