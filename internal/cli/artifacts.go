package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexwatch/judgment-scraper/internal/config"
	"github.com/lexwatch/judgment-scraper/internal/export"
	"github.com/lexwatch/judgment-scraper/internal/judgment"
	"github.com/lexwatch/judgment-scraper/internal/logger"
	"github.com/lexwatch/judgment-scraper/internal/notifier"
)

// artifacts are the files written by one export.
type artifacts struct {
	xlsx    *notifier.Attachment
	xlsxOut string
	csvOut  string
}

func (a *artifacts) paths() []string {
	paths := []string{a.xlsxOut}
	if a.csvOut != "" {
		paths = append(paths, a.csvOut)
	}
	return paths
}

// writeArtifacts writes judgments_<date>.xlsx (and .csv) into dir.
func writeArtifacts(dir string, now time.Time, records []*judgment.Record, withCSV bool) (*artifacts, error) {
	xlsxPath := filepath.Join(dir, export.Filename(now, "xlsx"))
	csvPath := ""
	if withCSV {
		csvPath = filepath.Join(dir, export.Filename(now, "csv"))
	}
	return writeArtifactsTo(xlsxPath, csvPath, records)
}

// writeArtifactsTo renders records to xlsxPath and, when csvPath is set, to
// csvPath. Nothing is written if the records cannot be exported.
func writeArtifactsTo(xlsxPath, csvPath string, records []*judgment.Record) (*artifacts, error) {
	rows, err := export.Prepare(records)
	if err != nil {
		return nil, err
	}

	data, err := export.RenderXLSX(records)
	if err != nil {
		return nil, err
	}

	var csvData bytes.Buffer
	if csvPath != "" {
		if err := export.WriteCSV(&csvData, records); err != nil {
			return nil, err
		}
	}

	if err := writeFile(xlsxPath, data); err != nil {
		return nil, err
	}
	logger.Info("Wrote workbook", logger.Fields{"path": xlsxPath, "bytes": len(data)})

	if csvPath != "" {
		if err := writeFile(csvPath, csvData.Bytes()); err != nil {
			return nil, err
		}
		logger.Info("Wrote CSV", logger.Fields{"path": csvPath, "bytes": csvData.Len()})
	}

	return &artifacts{
		xlsx: &notifier.Attachment{
			Filename:    filepath.Base(xlsxPath),
			ContentType: export.MIMEType,
			Data:        data,
			Records:     len(rows),
		},
		xlsxOut: xlsxPath,
		csvOut:  csvPath,
	}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// deliveryFlags selects the notification channels for a command.
type deliveryFlags struct {
	email    bool
	sms      bool
	telegram bool
	dryRun   bool
}

func (d *deliveryFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&d.email, "email", false, "Mail the workbook using the smtp settings")
	cmd.Flags().BoolVar(&d.sms, "sms", false, "Send an SMS heads-up using the sms settings")
	cmd.Flags().BoolVar(&d.telegram, "telegram", false, "Upload the workbook to the telegram chat")
	cmd.Flags().BoolVar(&d.dryRun, "dry-run", false, "Print the email/SMS instead of sending")
}

// validate fails when a selected channel lacks its required settings. Dry
// runs only print, so they are not checked.
func (d *deliveryFlags) validate(cfg *config.Config) error {
	if d.dryRun {
		return nil
	}
	if d.email && !cfg.SMTP.Enabled() {
		return fmt.Errorf("%w: --email needs smtp.host, smtp.username and smtp.to (or JUDGMENTS_SMTP_HOST, JUDGMENTS_SMTP_USERNAME, JUDGMENTS_SMTP_TO)", notifier.ErrNotConfigured)
	}
	if d.sms && !cfg.SMS.Enabled() {
		return fmt.Errorf("%w: --sms needs sms.api_key and sms.to (or JUDGMENTS_SMS_API_KEY, JUDGMENTS_SMS_TO)", notifier.ErrNotConfigured)
	}
	if d.telegram && !cfg.Telegram.Enabled() {
		return fmt.Errorf("%w: --telegram needs telegram.bot_token and telegram.chat_id (or JUDGMENTS_TELEGRAM_BOT_TOKEN, JUDGMENTS_TELEGRAM_CHAT_ID)", notifier.ErrNotConfigured)
	}
	return nil
}

// notifier builds the chain for the selected channels, or nil if none.
func (d *deliveryFlags) notifier(a *app, cfg *config.Config) (notifier.Notifier, error) {
	if !d.email && !d.sms && !d.telegram {
		return nil, nil
	}
	if err := d.validate(cfg); err != nil {
		return nil, err
	}

	smtpCfg := notifier.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		To:       cfg.SMTP.To,
		Subject:  cfg.SMTP.Subject,
		Body:     cfg.SMTP.Body,
	}
	smsCfg := notifier.SMSConfig{
		Endpoint: cfg.SMS.Endpoint,
		APIKey:   cfg.SMS.APIKey,
		To:       cfg.SMS.To,
		Message:  cfg.SMS.Message,
	}
	telegramCfg := notifier.TelegramConfig{
		APIBase:  cfg.Telegram.APIBase,
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}

	if d.dryRun {
		var emailPtr *notifier.SMTPConfig
		var smsPtr *notifier.SMSConfig
		if d.email {
			emailPtr = &smtpCfg
		}
		if d.sms {
			smsPtr = &smsCfg
		}
		dry := notifier.NewDryRunNotifier(a.stdout, emailPtr, smsPtr)
		if d.telegram {
			dry.WithTelegram(&telegramCfg)
		}
		return dry, nil
	}

	var chain notifier.Multi
	if d.email {
		n, err := notifier.NewEmailNotifier(smtpCfg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
	}
	if d.sms {
		n, err := notifier.NewSMSNotifier(smsCfg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
	}
	if d.telegram {
		n, err := notifier.NewTelegramNotifier(telegramCfg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, n)
	}
	return chain, nil
}

func (d *deliveryFlags) deliver(ctx context.Context, a *app, cfg *config.Config, att *notifier.Attachment) error {
	n, err := d.notifier(a, cfg)
	if err != nil || n == nil {
		return err
	}

	if err := n.Notify(ctx, att); err != nil {
		return fmt.Errorf("delivering %s: %w", att.Filename, err)
	}
	logger.Info("Export delivered", logger.Fields{
		"file":     att.Filename,
		"records":  att.Records,
		"email":    d.email,
		"sms":      d.sms,
		"telegram": d.telegram,
		"dry_run":  d.dryRun,
	})
	return nil
}
