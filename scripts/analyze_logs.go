package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// LogStats summarises one day of service logs
type LogStats struct {
	OrdersPlaced      int
	OrderFailures     int
	InsufficientFunds int
	GiftCodesIssued   int
	GiftCodesRedeemed int
	GiftRejections    int
	TopUpsSubmitted   int
	TopUpsConfirmed   int
	TopUpsRejected    int
	TopUpNoops        int
	SignatureMismatch int
	TotalErrors       int
	FailuresByReason  map[string]int
	ErrorPatterns     map[string]int
	OrdersByMethod    map[string]int
}

var (
	messageRegex = regexp.MustCompile(`\.go:\d+: (.*)$`)
	numberRegex  = regexp.MustCompile(`\d+`)
	methodRegex  = regexp.MustCompile(`method (\w+)`)
	codeRegex    = regexp.MustCompile(`SCENT-[A-Z0-9]+`)
)

func main() {
	var logDir, date string
	cmd := &cobra.Command{
		Use:   "analyze_logs",
		Short: "Summarise the order, wallet and review activity in a day's logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := &LogStats{
				FailuresByReason: make(map[string]int),
				ErrorPatterns:    make(map[string]int),
				OrdersByMethod:   make(map[string]int),
			}
			if err := scanLog(filepath.Join(logDir, fmt.Sprintf("info-%s.log", date)), stats.onInfo); err != nil {
				return err
			}
			if err := scanLog(filepath.Join(logDir, fmt.Sprintf("error-%s.log", date)), stats.onError); err != nil {
				return err
			}
			printReport(date, stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&logDir, "dir", "./logs", "directory holding the log files")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "day to analyse (YYYY-MM-DD)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func scanLog(path string, visit func(message string)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening log file %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := messageRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			// continuation lines of stack traces
			continue
		}
		visit(m[1])
	}
	return scanner.Err()
}

func (s *LogStats) onInfo(msg string) {
	switch {
	case strings.HasPrefix(msg, "Order placed:"):
		s.OrdersPlaced++
		if m := methodRegex.FindStringSubmatch(msg); m != nil {
			s.OrdersByMethod[m[1]]++
		}
	case strings.HasPrefix(msg, "Order placement failed"):
		s.OrderFailures++
		if i := strings.Index(msg, ": "); i >= 0 {
			s.FailuresByReason[pattern(msg[i+2:])]++
		}
	case strings.HasPrefix(msg, "Insufficient funds"):
		s.InsufficientFunds++
	case strings.HasPrefix(msg, "Gift code") && strings.Contains(msg, " issued by "):
		s.GiftCodesIssued++
	case strings.HasPrefix(msg, "Gift code") && strings.Contains(msg, " redeemed by "):
		s.GiftCodesRedeemed++
	case strings.HasPrefix(msg, "Gift code redemption rejected"):
		s.GiftRejections++
	case strings.HasPrefix(msg, "Top-up request"):
		s.TopUpsSubmitted++
	case strings.HasPrefix(msg, "Top-up") && strings.Contains(msg, "already"):
		s.TopUpNoops++
	case strings.HasPrefix(msg, "Top-up") && strings.Contains(msg, " confirmed by admin"):
		s.TopUpsConfirmed++
	case strings.HasPrefix(msg, "Top-up") && strings.Contains(msg, " rejected by admin"):
		s.TopUpsRejected++
	}
}

func (s *LogStats) onError(msg string) {
	s.TotalErrors++
	if strings.HasPrefix(msg, "Payment signature mismatch") {
		s.SignatureMismatch++
	}
	s.ErrorPatterns[pattern(msg)]++
}

// pattern collapses ids, amounts and codes so similar messages group together
func pattern(msg string) string {
	msg = codeRegex.ReplaceAllString(msg, "<code>")
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[:i]
	}
	return numberRegex.ReplaceAllString(msg, "N")
}

func printReport(date string, stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Day:", date)
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Orders:")
	fmt.Printf("   Placed: %d\n", stats.OrdersPlaced)
	fmt.Printf("   Failed: %d\n", stats.OrderFailures)
	printTop("   By payment method", stats.OrdersByMethod, 10)
	printTop("   Failure reasons", stats.FailuresByReason, 5)

	fmt.Println("\n2. Wallet:")
	fmt.Printf("   Insufficient funds rejections: %d\n", stats.InsufficientFunds)
	fmt.Printf("   Payment signature mismatches: %d\n", stats.SignatureMismatch)

	fmt.Println("\n3. Gift Codes:")
	fmt.Printf("   Issued: %d\n", stats.GiftCodesIssued)
	fmt.Printf("   Redeemed: %d\n", stats.GiftCodesRedeemed)
	fmt.Printf("   Rejected redemptions: %d\n", stats.GiftRejections)

	fmt.Println("\n4. Top-up Reviews:")
	fmt.Printf("   Submitted: %d\n", stats.TopUpsSubmitted)
	fmt.Printf("   Confirmed: %d\n", stats.TopUpsConfirmed)
	fmt.Printf("   Rejected: %d\n", stats.TopUpsRejected)
	fmt.Printf("   Repeated decisions: %d\n", stats.TopUpNoops)

	fmt.Println("\n5. Errors:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)
	printTop("   Most common", stats.ErrorPatterns, 5)
}

func printTop(title string, counts map[string]int, limit int) {
	type entry struct {
		key   string
		count int
	}
	var entries []entry
	for k, c := range counts {
		entries = append(entries, entry{k, c})
	}
	if len(entries) == 0 {
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	fmt.Println(title + ":")
	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Printf("     %s: %d\n", e.key, e.count)
	}
}
