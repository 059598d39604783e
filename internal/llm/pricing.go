package llm

// ModelPrice is the USD price per 1000 tokens.
type ModelPrice struct {
	Input  float64 `yaml:"input_per_1k"`
	Output float64 `yaml:"output_per_1k"`
}

type PriceTable map[string]ModelPrice

func DefaultPriceTable() PriceTable {
	return PriceTable{
		"anthropic.claude-3-haiku-20240307-v1:0":    {Input: 0.00025, Output: 0.00125},
		"anthropic.claude-3-5-sonnet-20240620-v1:0": {Input: 0.003, Output: 0.015},
		"gpt-4o-mini":                               {Input: 0.00015, Output: 0.0006},
		"llama-3.1-8b-instant":                      {Input: 0.00005, Output: 0.00008},
	}
}

// Cost returns the price of a call. Unknown models cost 0.
func (p PriceTable) Cost(modelID string, usage Usage) float64 {
	price, ok := p[modelID]
	if !ok {
		return 0
	}

	return float64(usage.InputTokens)/1000*price.Input + float64(usage.OutputTokens)/1000*price.Output
}
