package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/pretty"

	"property_brochure_writer/config"
	"property_brochure_writer/generator"
	"property_brochure_writer/logger"
	"property_brochure_writer/publisher"
	"property_brochure_writer/server"
)

var verbose bool

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	fieldsPath := flag.String("fields", "", "path to a JSON object of property fields")
	outPath := flag.String("out", "", "write the rendered brochure as HTML to this path")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	flag.BoolVar(&verbose, "v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	agent, err := generator.NewAgent(generator.NewRetryingLLM(llm, cfg.LLM.MaxRetries), cfg.LLM.Model, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web server mode
	if *serve {
		if strings.EqualFold(cfg.LogMode, "production") || strings.EqualFold(cfg.LogMode, "prod") {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := server.New(agent, server.Options{
			MaxRequestBytes: cfg.MaxRequestBytes,
			RequestTimeout:  cfg.RequestTimeout.Duration,
			CORSOrigins:     cfg.CORSOrigins,
		}, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		log.Info("starting web server", "addr", listen, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *fieldsPath == "" {
		fmt.Fprintln(os.Stderr, "--fields is required unless --serve is set")
		os.Exit(1)
	}
	if err := runOnce(context.Background(), agent, log, *fieldsPath, *outPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runOnce generates one brochure from a fields file and prints it as JSON.
func runOnce(ctx context.Context, agent *generator.Agent, log *logger.Logger, fieldsPath, outPath string) error {
	data, err := os.ReadFile(fieldsPath)
	if err != nil {
		return err
	}
	fields, err := generator.ParseFieldSet(data)
	if err != nil {
		return fmt.Errorf("%s: %w", fieldsPath, err)
	}

	log.Info("generating brochure", "fields", fieldsPath, "entries", len(fields))
	out, err := agent.Generate(ctx, fields)
	if err != nil {
		return err
	}

	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	os.Stdout.Write(pretty.Pretty(b))

	if outPath != "" {
		return publisher.New(log).Publish(ctx, out, outPath)
	}
	return nil
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	case config.ProviderOpenAI, config.ProviderDeepSeek:
		// DeepSeek 提供 OpenAI 兼容接口，base_url 已在配置校验中强制要求。
		model := cfg.LLM.Model
		if model == "" {
			model = generator.DefaultModel
		}
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
