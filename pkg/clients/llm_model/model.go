package llm_model

type Config struct {
	Addr        string  `json:"addr"`
	Model       string  `json:"model"`
	Token       string  `json:"token"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}
