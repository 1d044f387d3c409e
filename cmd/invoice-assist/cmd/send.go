package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkrish/invoice-assistant/pkg/config"
	"github.com/mkrish/invoice-assistant/pkg/document"
	"github.com/mkrish/invoice-assistant/pkg/history"
	"github.com/mkrish/invoice-assistant/pkg/notify"
	"github.com/mkrish/invoice-assistant/pkg/pathutil"
)

var (
	sendMonth   string
	sendTo      string
	sendTimeout time.Duration
	sendRetries int
	sendAttach  bool
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Deliver a generated invoice via Telegram",
	Long: `Deliver a previously generated invoice through the Telegram bot.

This command:
1. Reads the month's rendered invoice from the invoice directory
2. Sends it as a message to the configured chat
3. Optionally attaches the invoice file
4. Records the delivery attempt in SQLite history

A delivery failure does not invalidate the generated invoice; transient
failures are retried with backoff and can be retried again later.

Example:
  invoice-assist send --month 2024-07
  invoice-assist send --month 2024-07 --to 123456789 --timeout 10s`,
	Run: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendMonth, "month", "", "Billing month (YYYY-MM), defaults to the current month")
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Destination chat ID (overrides TELEGRAM_CHAT_ID)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "Bound on each delivery call")
	sendCmd.Flags().IntVar(&sendRetries, "retries", 3, "Retries for transient delivery failures")
	sendCmd.Flags().BoolVar(&sendAttach, "attach", true, "Attach the invoice file to the message")
}

func runSend(cmd *cobra.Command, args []string) {
	month := resolveMonth(sendMonth)
	slog.Info("Sending invoice", "month", month)

	// Load configuration
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate(
		[]string{"timesheet", "root"},
		[]string{"telegram", "botToken"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	destination := sendTo
	if destination == "" {
		destination = cfg.Telegram.ChatID
	}
	if destination == "" {
		exitOnError(fmt.Errorf("no destination: set TELEGRAM_CHAT_ID or pass --to"), "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		TimesheetRoot: cfg.Timesheet.Root,
		DatabasePath:  cfg.Timesheet.DBPath,
	})

	// Read the rendered invoice
	repo := document.NewFileSystemRepository(pathResolver)
	rendered, err := repo.ReadInvoice(month)
	exitOnError(err, "failed to read invoice")
	if rendered == "" {
		exitOnError(fmt.Errorf("no invoice generated for %s; run generate first", month), "nothing to send")
	}

	// Open history before delivering so the attempt is always recorded
	conn, err := history.Open(pathResolver.GetDatabasePath())
	exitOnError(err, "failed to open history database")
	defer conn.Close()
	store := history.NewStore(conn)

	notifier := notify.NewTelegram(notify.TelegramConfig{
		APIURL:   cfg.Telegram.APIURL,
		BotToken: cfg.Telegram.BotToken,
		Timeout:  sendTimeout,
		Retries:  sendRetries,
	})

	summary := fmt.Sprintf("Hi,\n%s.\n\nInvoice for %s:\n\n%s",
		notify.Greeting(time.Now()), month, rendered)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	result, err := notifier.Deliver(ctx, summary, destination)
	recordDelivery(store, month, destination, err)

	if err != nil {
		var deliveryErr *notify.DeliveryError
		if errors.As(err, &deliveryErr) && deliveryErr.Transient {
			slog.Warn("Delivery failed with a transient error; the invoice is unchanged, retry later",
				"month", month, "error", err)
		}
		fmt.Fprintf(os.Stderr, "Error: delivery failed: %v\n", err)
		os.Exit(1)
	}

	slog.Info("Message delivered", "destination", result.Destination, "sent_at", result.SentAt)

	// Attach the invoice file
	if sendAttach {
		invoicePath, err := pathResolver.GetInvoicePath(month)
		exitOnError(err, "failed to resolve invoice path")

		attachCtx, attachCancel := context.WithTimeout(context.Background(), sendTimeout)
		defer attachCancel()

		if _, err := notifier.SendDocument(attachCtx, destination, invoicePath); err != nil {
			// The summary already went through; report but keep the sent status
			slog.Error("Failed to attach invoice file", "path", invoicePath, "error", err)
			fmt.Fprintf(os.Stderr, "Warning: invoice message sent but attachment failed: %v\n", err)
		}
	}

	fmt.Printf("Invoice for %s delivered to chat %s\n", month, destination)
}

// recordDelivery writes the attempt outcome to history. History write
// failures are logged, not fatal: the delivery result already happened.
func recordDelivery(store *history.Store, month, destination string, deliveryErr error) {
	record := history.DeliveryRecord{
		Month:       month,
		Channel:     "telegram",
		Destination: destination,
		Status:      history.DeliveryStatusSent,
	}

	if deliveryErr != nil {
		record.Status = history.DeliveryStatusFailed
		record.Reason = sql.NullString{String: deliveryErr.Error(), Valid: true}

		var de *notify.DeliveryError
		if errors.As(deliveryErr, &de) {
			record.Transient = de.Transient
		}
	}

	if err := store.RecordDelivery(record); err != nil {
		slog.Error("Failed to record delivery history", "error", err)
	}
}
