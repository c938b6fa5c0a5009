// Command connectorprobe sends one authenticated call through a connector
// and prints the classified result. It is meant for checking credentials
// and base URLs of a connector configuration:
//
//	connectorprobe --config billing.yml --method GET --path widgets --query page=2
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kdg/connector/component"
	"github.com/kdg/connector/config"
	"github.com/kdg/connector/connector"
	"github.com/kdg/connector/logger"
	"github.com/kdg/connector/observability"
)

const serviceName = "connectorprobe"

type probeFlags struct {
	configFile string
	envFile    string
	method     string
	path       string
	baseURL    string
	query      map[string]string
	headers    map[string]string
	body       string
	accept     string
	slashes    bool
	redact     bool
	health     bool
	timeout    time.Duration
}

func parseFlags(args []string) (*probeFlags, error) {
	f := &probeFlags{}
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", "", ".env file")
	fs.StringVarP(&f.method, "method", "X", "GET", "HTTP method")
	fs.StringVarP(&f.path, "path", "p", "", "path relative to the base URL")
	fs.StringVar(&f.baseURL, "base-url", "", "override the configured base URL for this call")
	fs.StringToStringVarP(&f.query, "query", "q", nil, "query parameters (key=value,...)")
	fs.StringToStringVarP(&f.headers, "header", "H", nil, "extra headers (key=value,...)")
	fs.StringVarP(&f.body, "data", "d", "", "JSON request body")
	fs.StringVar(&f.accept, "accept", "", "Accept header")
	fs.BoolVar(&f.slashes, "slashes", false, "wrap the path in slashes")
	fs.BoolVar(&f.redact, "redact", false, "omit the response body from logs")
	fs.BoolVar(&f.health, "health", false, "print component health and exit")
	fs.DurationVar(&f.timeout, "timeout", 0, "overall deadline for the call (0 uses the connector timeout)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		if connector.IsClassification(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	var cfg appConfig
	opts := []config.Option{config.WithEnvPrefix("PROBE")}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return err
	}

	logger.Init(cfg.Logging, cfg.Name)
	log := logger.WithComponent(serviceName)

	provider, err := cfg.Credentials.provider()
	if err != nil {
		return err
	}

	tel := observability.NewComponent(cfg.Telemetry)
	connOpts := []connector.Option{
		connector.WithLogger(logger.GetGlobalLogger()),
		connector.WithTelemetry(tel.TracerProvider(), tel.MeterProvider()),
	}
	if provider != nil {
		connOpts = append(connOpts, connector.WithAuth(provider))
	}
	conn := connector.NewComponent(cfg.Connector, connOpts...)

	registry := component.NewRegistry()
	if err := registry.Register(tel); err != nil {
		return err
	}
	if err := registry.Register(conn); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), component.StopTimeout)
		defer cancel()
		if err := registry.StopAll(stopCtx); err != nil {
			log.Warn("shutdown failed", logger.ErrorFields("stop", err))
		}
	}()

	for _, d := range registry.Describe() {
		log.Debug("component ready", logger.Fields(logger.FieldComponent, d.Name, "type", d.Type, "details", d.Details))
	}

	if f.health {
		sh := observability.Aggregate(cfg.Name, cfg.Version, registry.HealthAll(ctx))
		return writeJSON(out, sh)
	}

	call, err := f.callConfig()
	if err != nil {
		return err
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var sendOpts []connector.SendOption
	if f.baseURL != "" {
		sendOpts = append(sendOpts, connector.WithBaseURL(f.baseURL))
	}
	if f.slashes {
		sendOpts = append(sendOpts, connector.WithSurroundingSlashes())
	}
	if f.redact {
		sendOpts = append(sendOpts, connector.WithoutResponseBodyLogging())
	}

	res, err := connector.Send[json.RawMessage](ctx, conn.Connector(), f.method, f.path, call, sendOpts...)
	if err != nil {
		var ce *connector.Error
		if errors.As(err, &ce) && ce.Kind == connector.KindClassification {
			_ = writeJSON(out, probeResult{Status: ce.StatusCode, Body: rawOrString(ce.Body)})
		}
		return err
	}
	return writeJSON(out, probeResult{Status: res.StatusCode(), Empty: res.Empty, Body: res.Data})
}

type probeResult struct {
	Status int             `json:"status"`
	Empty  bool            `json:"empty,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

func (f *probeFlags) callConfig() (connector.CallConfig, error) {
	call := connector.CallConfig{
		Headers: f.headers,
		Accept:  f.accept,
	}
	if len(f.query) > 0 {
		call.URLParams = connector.Params(f.query)
	}
	if f.body != "" {
		if !json.Valid([]byte(f.body)) {
			return call, fmt.Errorf("--data is not valid JSON")
		}
		call.PostParams = json.RawMessage(f.body)
	}
	call.Headers = normalizeHeaders(call.Headers)
	return call, nil
}

func normalizeHeaders(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func rawOrString(b []byte) json.RawMessage {
	if json.Valid(b) {
		return b
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
