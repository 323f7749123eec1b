package responses

type Stats struct {
	NumberOfNodes      int `json:"numberOfNodes"`
	NumberOfProperties int `json:"numberOfProperties"`
	// seconds
	LoadRuntime float64 `json:"loadRuntime"`
	// seconds
	OwnRuntime float64 `json:"ownRuntime"`
}
