package atmos

// Version is the engine version reported by the command line tools.
const Version = "0.3.1"
