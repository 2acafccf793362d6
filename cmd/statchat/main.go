// statchat is the local shell around the chat engine: it serves the browser
// widget, runs a terminal chat with the typing reveal, and carries small ops
// helpers for the catalog.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dataset-agent/internal/catalog"
	"dataset-agent/internal/domain"
	"dataset-agent/internal/repository"
	"dataset-agent/internal/reveal"
	"dataset-agent/internal/server"
	"dataset-agent/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statchat",
		Short: "Chat widget for the Kota Medan dataset catalog",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newChatService() (*usecase.ChatService, catalog.Catalog, error) {
	cat, err := catalog.Embedded()
	if err != nil {
		return nil, catalog.Catalog{}, err
	}
	svc, err := usecase.NewChatService(cat, nil, "", 0)
	if err != nil {
		return nil, catalog.Catalog{}, err
	}
	return svc, cat, nil
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser widget locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cat, err := newChatService()
			if err != nil {
				return err
			}

			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			srv, err := server.New(svc, cat, addr, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

func chatCmd() *cobra.Command {
	var intervalMs int

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newChatService()
			if err != nil {
				return err
			}
			runREPL(cmd.Context(), svc, time.Duration(intervalMs)*time.Millisecond)
			return nil
		},
	}

	cmd.Flags().IntVar(&intervalMs, "interval", 30, "milliseconds between revealed characters")
	return cmd
}

// runREPL reads messages line by line. While a reply is still being revealed,
// a new submission acts as a stop request; the interrupted line is replayed
// as the next message once the reveal has settled.
func runREPL(ctx context.Context, svc *usecase.ChatService, interval time.Duration) {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var history []domain.ConversationTurn
	convID := ""
	pending := ""

	fmt.Println("Asisten Data BPS Kota Medan. Ketik pertanyaan Anda, Ctrl+D untuk keluar.")
	for {
		var line string
		if pending != "" {
			line, pending = pending, ""
		} else {
			fmt.Print("> ")
			l, ok := <-lines
			if !ok {
				fmt.Println()
				return
			}
			line = l
		}
		// Empty submissions are a no-op at the call site, not in the engine.
		if strings.TrimSpace(line) == "" {
			continue
		}

		out, err := svc.Chat(ctx, usecase.ChatInput{Message: line, ConversationID: convID})
		if err != nil {
			fmt.Printf("maaf, terjadi kesalahan: %v\n", err)
			continue
		}
		convID = out.ConversationID

		task := reveal.NewTask(out.Reply, interval)
		stopInput := make(chan string, 1)
		watcherDone := make(chan struct{})
		go func() {
			select {
			case l, ok := <-lines:
				if ok {
					stopInput <- l
				}
				task.Stop()
			case <-watcherDone:
			}
		}()

		final := task.Run(ctx, func(chunk string) { fmt.Print(chunk) })
		close(watcherDone)
		if task.Stopped() && !task.Done() {
			fmt.Print(reveal.StoppedMarker)
		}
		fmt.Println()

		for _, src := range out.Sources {
			fmt.Printf("  - %s: %s\n", src.Title, src.URL)
		}

		history = append(history, domain.ConversationTurn{Question: line, Reply: final, Sources: out.Sources})

		select {
		case pending = <-stopInput:
		default:
		}
	}
}

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the embedded dataset catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Embedded()
			if err != nil {
				return err
			}

			for _, r := range cat.Records() {
				fmt.Printf("%-32s %-16s %s\n", r.ID, r.Category, r.Title)
			}
			fmt.Printf("\n%d datasets, %d categories\n", cat.Len(), len(domain.Categories()))
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Push the embedded catalog into a DynamoDB table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Embedded()
			if err != nil {
				return err
			}

			cfg, err := config.LoadDefaultConfig(cmd.Context())
			if err != nil {
				return fmt.Errorf("load AWS config: %w", err)
			}
			loader, err := repository.New(awsdynamodb.NewFromConfig(cfg), tableName)
			if err != nil {
				return err
			}

			if err := loader.SeedCatalog(cmd.Context(), cat.Records()); err != nil {
				return err
			}
			fmt.Printf("seeded %d records into %s\n", cat.Len(), tableName)
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table", "", "DynamoDB table name")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
