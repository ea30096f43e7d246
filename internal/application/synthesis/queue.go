package synthesis

import "talkinghead/internal/domain/job"

// QueueSnapshot is an aggregated point-in-time view of the job queue.
type QueueSnapshot struct {
	Counts  map[job.Status]int64     `json:"counts"`
	Buckets map[job.Status][]job.Job `json:"buckets"`
}

// queuePosition is the 1-based FIFO rank of a job inside the waiting
// bucket. The bucket is already ordered by creation time, so the rank is
// one plus the number of earlier-created waiting jobs. Returns 0 when the
// job is not waiting.
func queuePosition(waiting []job.Job, id string) int {
	for i := range waiting {
		if waiting[i].ID == id {
			return i + 1
		}
	}
	return 0
}
