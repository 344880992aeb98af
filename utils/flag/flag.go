package flag

import "flag"

var (
	ServiceName = flag.String("service", "api_server", "name of the service, used in logging and tracing")
	NoAuth      = flag.Bool("no_auth", false, "skip jwt verification, local development only")
)

func ParseFlags() {
	flag.Parse()
}
