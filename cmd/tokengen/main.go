// Command tokengen mints a bearer token for a principal using the server's
// secret key, read from the same environment as the server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/server/auth"
	"github.com/dmitrijs2005/sbts/internal/server/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := config.LoadEnvConfig()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	owner := fs.String("owner", "", "principal the token is issued for")
	secret := fs.String("secret", cfg.SecretKey, "HMAC secret")
	ttl := fs.Duration("ttl", cfg.AccessTokenValidityDuration, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(*owner) > common.MaxOwnerLength {
		return fmt.Errorf("owner longer than %d characters", common.MaxOwnerLength)
	}

	token, err := auth.GenerateToken(*owner, []byte(*secret), *ttl)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, common.BearerPrefix+token)
	return err
}
