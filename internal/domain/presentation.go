package domain

// Bucket is the coarse presentation category of a predicted label.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketNeutral  Bucket = "neutral"
)

// Tier is the confidence band used to color the confidence bar.
type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierAlert   Tier = "alert"
)
