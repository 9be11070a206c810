package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr   string
	Secret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("KBFETCH_ADDR"),
		},
		&cli.StringFlag{
			Name:        "server-secret",
			Usage:       "HMAC secret to verify POST /fetch requests (X-Kbfetch-Signature-256)",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("KBFETCH_SERVER_SECRET"),
		},
	}
}
