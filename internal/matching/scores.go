package matching

// Match score constants for near-miss ranking.
// Higher scores indicate more of the call agreed with the expectation.
const (
	// ScoreMethod is the score for a method match.
	ScoreMethod = 10

	// ScoreTarget is the score for a URL match, literal or pattern.
	ScoreTarget = 10

	// ScoreOption is the score for each request option that compared equal.
	ScoreOption = 5
)

// Match score constants for JSONPath matching.
const (
	// ScoreJSONPathCondition is the score per matched JSONPath condition.
	ScoreJSONPathCondition = 15
)
