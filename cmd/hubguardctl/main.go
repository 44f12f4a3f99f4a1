package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("invalid")

type printer struct {
	out    io.Writer
	format string // "json" | "text"
}

func (p *printer) print(text string, v any) {
	if p.format == "json" {
		b, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(p.out, string(b))
		return
	}
	fmt.Fprintln(p.out, text)
}

func newRootCmd() *cobra.Command {
	p := &printer{format: envOr("HUBGUARD_OUT", "text")}

	root := &cobra.Command{
		Use:           "hubguardctl",
		Short:         "Utilidades de hubguard: tokens CSRF, sanitizado y validación",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p.out = cmd.OutOrStdout()
			switch p.format {
			case "json", "text":
				return nil
			}
			return fmt.Errorf("formato de salida inválido: %q (json|text)", p.format)
		},
	}
	root.PersistentFlags().StringVar(&p.format, "out", p.format, "Formato de salida: json|text (env HUBGUARD_OUT)")

	// token
	var withMeta bool
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un token CSRF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := csrf.GenerateToken()
			if err != nil {
				return err
			}
			text := tok
			res := map[string]string{"csrf_token": tok}
			if withMeta {
				meta := csrf.MetaTag(tok)
				text += "\n" + meta
				res["meta"] = meta
			}
			p.print(text, res)
			return nil
		},
	}
	tokenCmd.Flags().BoolVar(&withMeta, "meta", false, "imprime también el <meta> para páginas")

	// sanitize
	sanitizeCmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Sanitiza entradas de usuario",
	}
	sanitizeCmd.AddCommand(
		&cobra.Command{
			Use:   "url <url>",
			Short: "Valida y normaliza una URL (sólo http/https)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := sanitize.SanitizeURL(args[0])
				if err != nil {
					return err
				}
				p.print(u, map[string]string{"url": u})
				return nil
			},
		},
		&cobra.Command{
			Use:   "text <texto>",
			Short: "Quita tags y contenido peligroso de texto libre",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s := sanitize.Text(strings.Join(args, " "))
				p.print(s, map[string]string{"text": s})
				return nil
			},
		},
		&cobra.Command{
			Use:   "html <texto>",
			Short: "Escapa HTML",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s := sanitize.EscapeHTML(strings.Join(args, " "))
				p.print(s, map[string]string{"html": s})
				return nil
			},
		},
	)

	usernameCmd := &cobra.Command{
		Use:   "username <nombre>",
		Short: "Valida un nombre de usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := sanitize.ValidateUsername(args[0])
			text := "ok"
			if !res.Valid {
				text = res.Error
			}
			p.print(text, res)
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}

	errmsgCmd := &cobra.Command{
		Use:   "errmsg <mensaje>",
		Short: "Muestra qué vería el cliente para un error interno",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := sanitize.SafeErrorMessage(errors.New(strings.Join(args, " ")), "")
			p.print(msg, map[string]string{"error": msg})
			return nil
		},
	}

	root.AddCommand(tokenCmd, sanitizeCmd, usernameCmd, errmsgCmd)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
