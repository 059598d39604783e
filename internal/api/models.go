package api

type IndexResponse struct {
	Message   string            `json:"message" description:"Service banner"`
	Endpoints map[string]string `json:"endpoints" description:"Available endpoints"`
}

type HealthResponse struct {
	Status   string `json:"status" description:"Service status"`
	Version  string `json:"version" description:"API version"`
	Canary   string `json:"canary" description:"Canary deployment flag"`
	RAGReady bool   `json:"rag_ready" description:"Whether the retrieval engine is loaded"`
}

type AskResponse struct {
	Answer         string   `json:"answer" description:"Answer, or the safety message when moderated"`
	Sources        []string `json:"sources" description:"Previews of the retrieved passages"`
	LatencySeconds float64  `json:"latency_seconds" description:"Retrieval latency in seconds"`
}
