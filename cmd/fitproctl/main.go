// Command fitproctl drives the FitPro admin account flows from a terminal.
//
//	fitproctl [-server URL] signup -username NAME -email EMAIL -password PW [-wait]
//	fitproctl [-server URL] reset -email EMAIL -password NEWPW [-wait]
//	fitproctl [-server URL] login -email EMAIL -password PW
//	fitproctl [-server URL] wait -email EMAIL [-interval 5s] [-attempts 12]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"fitpro/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fitproctl:", err)
		if errors.Is(err, client.ErrWaitTimeout) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("fitproctl", flag.ContinueOnError)
	server := global.String("server", envOr("FITPRO_SERVER", "http://localhost:5006"), "FitPro base URL")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		return errors.New("usage: fitproctl [-server URL] signup|reset|login|wait [flags]")
	}

	c := client.New(*server, nil)
	cmd, rest := global.Arg(0), global.Args()[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "password (new password for reset)")
	username := fs.String("username", "", "admin username (signup)")
	wait := fs.Bool("wait", false, "after signup or reset, wait until the emailed link is opened")
	interval := fs.Duration("interval", client.DefaultWaitOptions.Interval, "poll interval")
	attempts := fs.Int("attempts", client.DefaultWaitOptions.MaxAttempts, "poll attempts before giving up")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}
	opts := client.WaitOptions{Interval: *interval, MaxAttempts: *attempts}

	switch cmd {
	case "signup":
		msg, err := c.Signup(ctx, *username, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		if *wait {
			return waitFor(ctx, c, *email, opts, out)
		}
		return nil
	case "reset":
		msg, err := c.RequestReset(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		if *wait {
			return waitFor(ctx, c, *email, opts, out)
		}
		return nil
	case "login":
		s, err := c.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "token: %s\nexpires: %s\n", s.Token, s.ExpiresAt.Local().Format(time.RFC1123))
		return nil
	case "wait":
		return waitFor(ctx, c, *email, opts, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func waitFor(ctx context.Context, c *client.Client, email string, opts client.WaitOptions, out io.Writer) error {
	fmt.Fprintf(out, "Waiting for %s to open the emailed link (every %s, %d tries)...\n", email, opts.Interval, opts.MaxAttempts)
	if err := c.WaitForVerification(ctx, email, opts); err != nil {
		return err
	}
	fmt.Fprintln(out, "Verified. You can now log in.")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
