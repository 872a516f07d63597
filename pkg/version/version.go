package version

// Version is set at build time via -ldflags "-X github.com/maxvaer/keycrack/pkg/version.Version=...".
var Version = "dev"
