package runlog

var (
	bRuns    = []byte("runs")     // id -> runBytes
	bIdxTime = []byte("idx_time") // invTime + 0x00 + id -> 1
	bDay     = []byte("day")      // dayKey -> id
)
