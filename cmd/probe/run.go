package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"giwa/sdk-probe/internal/domain"
	"giwa/sdk-probe/internal/i18n"
	"giwa/sdk-probe/internal/render"
	"giwa/sdk-probe/internal/sdk"
	"giwa/sdk-probe/internal/service"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the probe plan once and print the results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Usage: "language for probe names and messages (ko, en)"},
			&cli.StringFlag{Name: "variant", Usage: "plan variant (standard, extended)"},
			&cli.StringFlag{Name: "report", Usage: "write the settled report to `FILE` (.json or .yaml)"},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	client, _, err := newSDKClient(cfg)
	if err != nil {
		return err
	}

	svcCfg, err := serviceConfig(cfg, c.String("variant"))
	if err != nil {
		return err
	}

	prefs := openPreferences(cfg, log)
	defer prefs.Close()

	lang := i18n.DefaultLanguage
	if prefs != nil {
		lang = prefs.Language()
	}
	if flag := c.String("lang"); flag != "" {
		if lang, err = i18n.ParseLanguage(flag); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := service.NewProbeService(client, prefs, nil, nil, log, svcCfg)
	term := render.NewTerminal(os.Stdout, i18n.For(lang))

	term.Header(summarize(ctx, client, log))
	svc.Observe(func(_ int, o domain.Outcome) {
		if o.Status == domain.StatusRunning {
			term.Progress(o.Name)
		}
	})

	report, err := svc.Run(ctx, string(lang))
	if err != nil {
		return err
	}
	term.Results(report.Outcomes)

	if path := c.String("report"); path != "" {
		if err := render.WriteReport(path, report); err != nil {
			return err
		}
		log.Info("report written", slog.String("path", path))
	}

	if report.Failed() {
		return cli.Exit(fmt.Sprintf("%d probe(s) failed", report.Counts.Fail), 1)
	}
	return nil
}

func summarize(ctx context.Context, client sdk.Client, log *slog.Logger) render.Summary {
	var s render.Summary

	if network, err := client.Network(ctx); err == nil {
		s.Network = network.Name
		s.Ready = network.Ready
	} else {
		log.Debug("network unavailable for header", slog.String("error", err.Error()))
	}

	if wallet, err := client.Wallet(ctx); err == nil {
		s.HasWallet = wallet.HasWallet
	}
	return s
}
