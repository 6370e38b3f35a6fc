package outcome

// Failure records one skipped keyword or username.
type Failure struct {
	Key     string
	Message string
}

func NewFailure(key string, err error) Failure {
	return Failure{Key: key, Message: err.Error()}
}
