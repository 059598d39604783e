package database

type Chunk struct {
	Id         string
	DocumentID string
	Content    string
	Distance   float64
}

// Score converts cosine distance (0 identical, 2 opposite) to a similarity in [0, 1].
func (c Chunk) Score() float64 {
	score := 1.0 - c.Distance
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
