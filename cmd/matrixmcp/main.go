// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command matrixmcp runs an MCP server that exposes a Matrix homeserver
// session to AI agents, alongside a small HTTP management API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rusq/matrixmcp/internal/gateway"
	"github.com/rusq/matrixmcp/internal/httpapi"
	"github.com/rusq/matrixmcp/internal/matrix"
	"github.com/rusq/matrixmcp/internal/mcp"
)

var build = "dev"

// secrets defines the names of the supported secret files that we load our
// secrets from.  Inexperienced windows users might have bad experience trying
// to create .env file with the notepad as it will battle for having the
// "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters.
type params struct {
	transport string // mcp transport: stdio or http
	listen    string // mcp http listen address
	apiListen string // management api listen address, empty disables
	limitsCfg string // limits config file (toml)

	homeserver string
	token      string
	userID     string
	username   string
	password   string
	deviceID   string

	printVersion bool
	verbose      bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		slog.Error("invalid parameters", "error", err)
		os.Exit(2)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}

	lg := initLog(p.verbose)
	slog.SetDefault(lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, lg, p); err != nil {
		lg.ErrorContext(ctx, "fatal", "error", err)
		os.Exit(1)
	}
}

// initLog initialises the logger.  The MCP stdio transport owns stdout, so
// all logging goes to stderr.
func initLog(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, lg *slog.Logger, p params) error {
	limits := matrix.DefLimits
	if p.limitsCfg != "" {
		loaded, err := matrix.LoadLimits(p.limitsCfg)
		if err != nil {
			return fmt.Errorf("limits config: %w", err)
		}
		limits = *loaded
	}

	gw := gateway.New(dialer(lg, limits),
		gateway.WithLogger(lg),
		gateway.WithSyncTimeout(limits.SyncTimeout),
	)

	// Eager connect when credentials come from the environment or flags, so
	// that a fully-configured server is usable without a connect_matrix
	// call.  A failure is not fatal: the agent can still connect later.
	if p.homeserver != "" {
		creds := gateway.Credentials{
			HomeserverURL: p.homeserver,
			Token:         p.token,
			UserID:        p.userID,
			Username:      p.username,
			Password:      p.password,
			DeviceID:      p.deviceID,
		}
		if userID, err := gw.Connect(ctx, creds); err != nil {
			lg.WarnContext(ctx, "startup connect failed", "homeserver", p.homeserver, "error", err)
		} else {
			lg.InfoContext(ctx, "startup connect succeeded", "user_id", userID)
		}
	}

	srv := mcp.New(gw, mcp.WithLogger(lg))

	eg, ctx := errgroup.WithContext(ctx)
	if p.apiListen != "" {
		api := httpapi.New(gw, lg)
		eg.Go(func() error {
			return api.ListenAndServe(ctx, p.apiListen)
		})
	}
	eg.Go(func() error {
		switch mcp.Transport(p.transport) {
		case mcp.TransportStdio:
			return srv.ServeStdio(ctx)
		case mcp.TransportHTTP:
			return srv.ServeHTTP(ctx, p.listen)
		default:
			return fmt.Errorf("unknown transport: %q", p.transport)
		}
	})
	return eg.Wait()
}

// dialer returns the DialFunc that authenticates against the homeserver
// named in the credentials.
func dialer(lg *slog.Logger, limits matrix.Limits) gateway.DialFunc {
	return func(ctx context.Context, creds gateway.Credentials) (gateway.Conn, error) {
		client, err := matrix.NewClient(matrix.ClientConfig{
			HomeserverURL: creds.HomeserverURL,
			Logger:        lg,
			Limits:        &limits,
		})
		if err != nil {
			return nil, err
		}
		if creds.Token != "" {
			sess := client.SessionFromToken(creds.UserID, creds.Token)
			if creds.UserID == "" {
				// Resolve the user ID, which also proves the token is valid.
				if _, err := sess.WhoAmI(ctx); err != nil {
					return nil, err
				}
			}
			return sess, nil
		}
		return client.Login(ctx, creds.Username, creds.Password, creds.DeviceID)
	}
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		godotenv.Load(f)
	}
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			"Matrix MCP server, %s\n"+
				"Exposes a Matrix homeserver session to AI agents over the Model\n"+
				"Context Protocol.  Credentials can be passed on the command line,\n"+
				"in the environment, or at runtime via the connect_matrix tool or\n"+
				"the POST /connect management endpoint.\n\n"+
				"Usage:  %s [flags]\n\n",
			build, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	var p params
	fs.StringVar(&p.transport, "transport", osenv.Value("MCP_TRANSPORT", string(mcp.TransportStdio)), "MCP transport: `stdio or http`")
	fs.StringVar(&p.listen, "listen", osenv.Value("MCP_LISTEN", "127.0.0.1:8484"), "listen `address` for the MCP http transport")
	fs.StringVar(&p.apiListen, "api-listen", osenv.Value("API_LISTEN", "127.0.0.1:8000"), "listen `address` for the management API, empty to disable")
	fs.StringVar(&p.limitsCfg, "limits-config", "", "limits configuration `file` (TOML)")
	fs.StringVar(&p.homeserver, "homeserver", osenv.Value("MATRIX_HOMESERVER", ""), "homeserver `URL` to connect to on startup")
	fs.StringVar(&p.token, "token", osenv.Secret("MATRIX_TOKEN", ""), "access `token` (mutually exclusive with username/password)")
	fs.StringVar(&p.userID, "user", osenv.Value("MATRIX_USER_ID", ""), "fully-qualified `user ID`, optional with -token")
	fs.StringVar(&p.username, "username", osenv.Value("MATRIX_USERNAME", ""), "`username` for password login")
	fs.StringVar(&p.password, "password", osenv.Secret("MATRIX_PASSWORD", ""), "`password` for password login")
	fs.StringVar(&p.deviceID, "device-id", osenv.Value("MATRIX_DEVICE_ID", ""), "`device ID` to reuse for password login")
	fs.BoolVar(&p.printVersion, "version", false, "print version and exit")
	fs.BoolVar(&p.verbose, "v", osenv.Value("DEBUG", false), "verbose messages")
	if err := fs.Parse(args); err != nil {
		return p, err
	}
	if fs.NArg() != 0 {
		return p, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return p, nil
}
