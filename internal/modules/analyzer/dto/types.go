package dto

type SampleOutput struct {
	FrequencyHz float64
	Magnitude   float64
	Voiced      bool
}

type SourceInfo struct {
	Name    string
	Version string
	Binary  string
	Enabled bool
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}
