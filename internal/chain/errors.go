package chain

import "fmt"

type batchShapeError struct {
	got, want int
}

func (e batchShapeError) Error() string {
	return fmt.Sprintf("aggregate returned %d results for %d calls", e.got, e.want)
}

func errBatchShape(got, want int) error {
	return batchShapeError{got: got, want: want}
}
