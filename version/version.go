package version

var Version = "1.0.0"
