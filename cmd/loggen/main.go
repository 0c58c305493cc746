package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// loggen simulates a dev server writing its stdout and stderr to the two
// files devtail watches. The stdout stream mixes routes, build chatter, tool
// output and the occasional ANSI-colored line; the stderr stream produces
// errors and tracebacks at a quarter of the rate.
func main() {
	var (
		outPath     string
		errPath     string
		rate        float64
		durationStr string
		late        time.Duration
		color       bool
	)

	flag.StringVar(&outPath, "out", "/tmp/devserver-out.log", "stdout log file to write")
	flag.StringVar(&errPath, "err", "/tmp/devserver-error.log", "stderr log file to write")
	flag.Float64Var(&rate, "rate", 6.0, "Messages per second on the stdout log")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.DurationVar(&late, "late", 0, "Delay before the files are created; exercises the viewer's waiting state")
	flag.BoolVar(&color, "color", true, "Wrap some lines in ANSI color codes")
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	// Setup interrupt handling
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(abort)
	}()

	// Parse duration if provided
	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}

	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return true
		}
		return false
	}

	if late > 0 {
		fmt.Fprintf(os.Stderr, "waiting %s before creating log files\n", late)
		select {
		case <-time.After(late):
		case <-abort:
			return
		}
	}

	errRate := rate / 4
	if errRate <= 0 {
		errRate = 0.5
	}

	var wg sync.WaitGroup
	if err := runStreamToFile(&wg, outPath, rate, newOutGenerator(color), shouldStop); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := runStreamToFile(&wg, errPath, errRate, newErrGenerator(), shouldStop); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "simulating dev server: %s at %.1f msg/s, %s at %.1f msg/s\n", outPath, rate, errPath, errRate)
	wg.Wait()
}

func runStreamToFile(wg *sync.WaitGroup, path string, rate float64, lineFn func() string, shouldStop func() bool) error {
	// Always clear the existing log at the start, like a restarted server
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer w.Flush()
		defer f.Close()
		runStream(w, rate, lineFn, shouldStop)
	}()
	return nil
}

func runStream(w *bufio.Writer, rate float64, lineFn func() string, shouldStop func() bool) {
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if shouldStop() {
			return
		}
		<-ticker.C
		w.WriteString(lineFn())
		w.WriteByte('\n')
		_ = w.Flush()
	}
}

func newOutGenerator(color bool) func() string {
	return func() string {
		r := rand.Float64()
		switch {
		case r < 0.35:
			return routeLine(color)
		case r < 0.50:
			return buildLine()
		case r < 0.62:
			return successLine(color)
		case r < 0.72:
			return toolLine()
		case r < 0.80:
			return time.Now().Format("2006-01-02 15:04:05") + " request logged"
		case r < 0.86:
			return "warning: " + randomWarning()
		default:
			return plainLine()
		}
	}
}

func newErrGenerator() func() string {
	return func() string {
		r := rand.Float64()
		switch {
		case r < 0.4:
			return "Error: " + randomError()
		case r < 0.6:
			return fmt.Sprintf("Unhandled rejection in worker %d: %s", randInt(1, 8), randomError())
		case r < 0.8:
			return traceback()
		default:
			return fmt.Sprintf("%s failed after %d retries", randomSubsystem(), randInt(1, 5))
		}
	}
}

func routeLine(color bool) string {
	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
	paths := []string{"/", "/api/users", "/api/users/" + fmt.Sprint(randInt(1, 500)), "/api/session", "/api/chat", "/assets/app.js", "/favicon.ico"}
	line := fmt.Sprintf("%s %s %d in %dms", methods[rand.Intn(len(methods))], paths[rand.Intn(len(paths))], randomStatus(), randInt(1, 900))
	if color && rand.Intn(2) == 0 {
		return "\x1b[36m" + line + "\x1b[0m"
	}
	return line
}

func buildLine() string {
	files := []string{"src/pages/index.tsx", "src/components/App.tsx", "src/lib/db.ts", "src/styles/main.css"}
	f := files[rand.Intn(len(files))]
	msgs := []string{
		"compiling " + f + " ...",
		"building client bundle",
		"hmr update " + f,
		fmt.Sprintf("compiling modules (%d files)", randInt(10, 400)),
	}
	return msgs[rand.Intn(len(msgs))]
}

func successLine(color bool) string {
	msgs := []string{
		fmt.Sprintf("✓ compiled successfully in %dms", randInt(80, 1500)),
		"ready on http://localhost:3000",
		"build success",
		fmt.Sprintf("✅ %d modules transformed", randInt(20, 600)),
	}
	line := msgs[rand.Intn(len(msgs))]
	if color && rand.Intn(3) == 0 {
		return "\x1b[32m" + line + "\x1b[0m"
	}
	return line
}

func toolLine() string {
	msgs := []string{
		"[chatbot] session " + randHex(6) + " started",
		fmt.Sprintf("[chatbot] reply sent in %dms", randInt(100, 2000)),
		"[tool:search] query served",
		fmt.Sprintf("[tool:embeddings] batch of %d vectors", randInt(1, 64)),
	}
	return msgs[rand.Intn(len(msgs))]
}

func plainLine() string {
	msgs := []string{
		"watching for file changes",
		"session store pruned",
		"config reloaded",
		"metrics flushed",
		"cache warmed",
	}
	return msgs[rand.Intn(len(msgs))]
}

func randomWarning() string {
	msgs := []string{
		"deprecated API used at src/lib/db.ts:42",
		"slow query took 1.2s",
		"retrying upstream request",
	}
	return msgs[rand.Intn(len(msgs))]
}

func randomError() string {
	errs := []string{
		"connection refused at db.connect",
		"ECONNRESET while proxying /api/chat",
		"cannot read properties of undefined (reading 'id')",
		"listen EADDRINUSE: address already in use :::3000",
		"request timeout after 30s",
	}
	return errs[rand.Intn(len(errs))]
}

// traceback emits a multi-line Python-style trace; the embedded newlines end
// up as separate file lines, which is exactly what a crashing worker does.
func traceback() string {
	return "Traceback (most recent call last):\n" +
		fmt.Sprintf("  File \"server/worker.py\", line %d, in handle\n", randInt(10, 300)) +
		"    result = session.query(payload)\n" +
		"ValueError: invalid payload shape"
}

func randomSubsystem() string {
	subs := []string{"db migration", "websocket upgrade", "asset pipeline", "auth refresh"}
	return subs[rand.Intn(len(subs))]
}

func randomStatus() int {
	// Weighted statuses
	r := rand.Float64()
	switch {
	case r < 0.75:
		return 200
	case r < 0.85:
		return 201
	case r < 0.93:
		return 404
	case r < 0.98:
		return 500
	default:
		return 302
	}
}

func randInt(min, max int) int { return rand.Intn(max-min+1) + min }

func randHex(n int) string {
	const hexdigits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = hexdigits[rand.Intn(len(hexdigits))]
	}
	return string(b)
}
