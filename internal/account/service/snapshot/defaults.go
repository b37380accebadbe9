package snapshot

const (
	defaultWorkerCount        = 4
	defaultLogAmount   uint64 = 1000

	phaseScan    = "scan"
	phaseResolve = "resolve"
	phaseExport  = "export"
)
