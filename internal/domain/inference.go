package domain

// FeatureVector is the fixed-length numeric representation of one text.
type FeatureVector []float64

// Sequence is a classifier input of shape [timesteps][features].
type Sequence [][]float64

// Distribution is the classifier output, one probability per class index.
type Distribution []float64

// Vectorizer turns raw text into a feature vector using a fitted vocabulary.
type Vectorizer interface {
	Vectorize(text string) (FeatureVector, error)
	Features() int
}

// Classifier runs one forward pass over a sequence.
type Classifier interface {
	Predict(seq Sequence) (Distribution, error)
	InputWidth() int
	Classes() int
}

// LabelDecoder maps classifier output positions to label strings.
type LabelDecoder interface {
	Decode(index int) (string, error)
	Labels() []string
}

// Artifacts groups the three read-only artifacts loaded at startup.
type Artifacts struct {
	Classifier Classifier
	Vectorizer Vectorizer
	Labels     LabelDecoder
}

// Prediction is the result of analyzing one text.
type Prediction struct {
	Label        string
	Index        int
	Confidence   float64 // percentage in [0, 100]
	Bucket       Bucket
	Distribution Distribution
	Classes      []string // label of every Distribution position
}

// ModelInfo describes the loaded artifacts for operators.
type ModelInfo struct {
	Backend      string   `json:"backend"`
	Architecture []string `json:"architecture,omitempty"`
	Features     int      `json:"features"`
	Classes      []string `json:"classes"`
}
