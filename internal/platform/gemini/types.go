package gemini

// responseSchema is the JSON document the model is asked to produce.
type responseSchema struct {
	Cards []cardSchema `json:"cards"`
}

type cardSchema struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
