package internal

// Version is the wordwalk release version
const Version = "0.3.0"
