package fetcher

// Version is the SDK version reported in the x-client-info header.
const Version = "0.1.0"

// clientInfo identifies this SDK on the wire.
const clientInfo = "citadel-go/" + Version

// Service names one of the platform's backend subsystems. Requests record
// which service they target so errors can carry it as context.
type Service string

const (
	ServiceAuth      Service = "auth"
	ServiceFunctions Service = "functions"
	ServiceStorage   Service = "storage"
	ServiceRealtime  Service = "realtime"
	ServiceDatabase  Service = "database"
)
