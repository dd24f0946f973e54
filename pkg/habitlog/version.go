package habitlog

// Version is the habitlog release version.
const Version = "0.1.0"
