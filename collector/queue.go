package collector

import (
	conq "github.com/enriquebris/goconcurrentqueue"
	"github.com/oqtopus-team/oqtopus-bench/core"
)

type taskQueue struct {
	*conq.FIFO
}

func newTaskQueue(reqs []*core.BenchmarkRequest) (*taskQueue, error) {
	q := &taskQueue{FIFO: conq.NewFIFO()}
	for _, r := range reqs {
		if err := q.FIFO.Enqueue(r); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// next returns false once the queue is drained.
func (q *taskQueue) next() (*core.BenchmarkRequest, bool) {
	tmp, err := q.FIFO.Dequeue()
	if err != nil {
		return nil, false
	}
	return tmp.(*core.BenchmarkRequest), true
}
