package ai

// Recommendation is one activity record the model is instructed to emit.
// Extra fields in the model output are ignored; missing fields decode to
// their zero values and render as empty downstream.
type Recommendation struct {
	Day          string `json:"day"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	ActivityName string `json:"activity_name"`
	Price        string `json:"price"`
	Description  string `json:"description"`
}
