package base

// Method is the method of a RTSP request.
type Method string

// Methods used by the dialog sequence this client drives.
const (
	Options  Method = "OPTIONS"
	Describe Method = "DESCRIBE"
	Setup    Method = "SETUP"
	Play     Method = "PLAY"
	Teardown Method = "TEARDOWN"
)
