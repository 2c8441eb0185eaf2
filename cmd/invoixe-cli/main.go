package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/invoixe/invoixe/internal/receipt"
)

const defaultAddr = "http://localhost:8080"

func main() {
	exitFn(run(os.Args, os.Stdout, os.Stderr))
}

var exitFn = os.Exit

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	switch args[1] {
	case "create":
		return handleCreate(args[2:], stdout, stderr)
	case "verify":
		return handleVerify(args[2:], stdout, stderr)
	case "newid":
		fmt.Fprintln(stdout, receipt.NewID())
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func handleCreate(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOrDefault("INVOIXE_ADDR", defaultAddr), "InvoiXe API address")
	file := fs.String("file", "", "path to receipt JSON")
	token := fs.String("token", envOrDefault("INVOIXE_TOKEN", os.Getenv("INVOIXE_DEV_TOKEN")), "bearer token")
	jsonOut := fs.Bool("json", false, "print raw JSON response")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	if *file == "" {
		fmt.Fprintln(stderr, "create requires -file <receipt.json>")
		fs.Usage()
		return 2
	}

	// #nosec G304 -- path is operator-provided input file.
	body, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	respBody, status, err := httpPost(http.DefaultClient, *addr+"/v1/receipts", *token, body)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if status != http.StatusCreated {
		fmt.Fprintf(stderr, "create failed: %s\n", strings.TrimSpace(string(respBody)))
		return 1
	}

	if *jsonOut {
		_, _ = stdout.Write(respBody)
		return 0
	}

	var payload struct {
		Receipt struct {
			ID   string `json:"id"`
			Hash string `json:"hash"`
		} `json:"receipt"`
		VerificationURL string `json:"verification_url"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		fmt.Fprintln(stderr, "invalid response:", err)
		return 1
	}

	fmt.Fprintf(stdout, "receipt_id=%s\n", payload.Receipt.ID)
	fmt.Fprintf(stdout, "hash=%s\n", payload.Receipt.Hash)
	fmt.Fprintf(stdout, "verify_url=%s\n", payload.VerificationURL)
	return 0
}

func handleVerify(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", envOrDefault("INVOIXE_ADDR", defaultAddr), "InvoiXe API address")
	jsonOut := fs.Bool("json", false, "print raw JSON response")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "verify requires <receipt_id>")
		fs.Usage()
		return 2
	}
	receiptID := fs.Arg(0)

	respBody, status, err := httpGet(http.DefaultClient, *addr+"/v1/verify/"+receiptID)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	if *jsonOut {
		_, _ = stdout.Write(respBody)
		return 0
	}

	if status == http.StatusNotFound {
		fmt.Fprintf(stderr, "receipt not found: %s\n", receiptID)
		return 1
	}
	if status != http.StatusOK {
		fmt.Fprintf(stderr, "verify failed: %s\n", strings.TrimSpace(string(respBody)))
		return 1
	}

	var payload struct {
		ReceiptID     string `json:"receipt_id"`
		Valid         bool   `json:"valid"`
		HashValid     bool   `json:"hash_valid"`
		ChecksumValid bool   `json:"checksum_valid"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		fmt.Fprintln(stderr, "invalid response:", err)
		return 1
	}

	if payload.Valid {
		fmt.Fprintf(stdout, "valid=true receipt_id=%s\n", payload.ReceiptID)
		return 0
	}
	fmt.Fprintf(stdout, "valid=false receipt_id=%s hash_valid=%v checksum_valid=%v\n",
		payload.ReceiptID, payload.HashValid, payload.ChecksumValid)
	return 1
}

func httpGet(client *http.Client, url string) ([]byte, int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func httpPost(client *http.Client, url, token string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: invoixe-cli <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  create -file <receipt.json>   create and seal a receipt")
	fmt.Fprintln(w, "  verify <receipt_id>           verify a stored receipt")
	fmt.Fprintln(w, "  newid                         print a fresh receipt id")
}
