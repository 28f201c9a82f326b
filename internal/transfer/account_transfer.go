package transfer

type ConnectAccountRequest struct {
	Platform        string `json:"platform"`
	AccountID       string `json:"account_id"`
	AccountName     string `json:"account_name"`
	AccountUsername string `json:"account_username"`
	AccessToken     string `json:"access_token"`
	ExpiresIn       int64  `json:"expires_in"`
}
