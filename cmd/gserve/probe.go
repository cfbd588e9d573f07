package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/legamerdc/gserve/client"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send lines to a running server and print what comes back",
	RunE:  runProbe,
}

func init() {
	f := probeCmd.Flags()
	f.String("addr", "127.0.0.1:8080", "server address")
	f.String("message", "hello", "line to send")
	f.Int("count", 1, "number of lines to send")
	f.Duration("timeout", 5*time.Second, "dial and read timeout")

	rootCmd.AddCommand(probeCmd)
}

// lineCollector 把读到的字节按行送到 channel。
type lineCollector struct {
	buf    bytes.Buffer
	lines  chan string
	closed chan error
}

func (l *lineCollector) OnOpen(*client.Client) {}

func (l *lineCollector) OnData(_ *client.Client, b []byte) {
	l.buf.Write(b)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// 不完整的行放回缓冲
			l.buf.Reset()
			l.buf.WriteString(line)
			return
		}
		l.lines <- line
	}
}

func (l *lineCollector) OnClose(_ *client.Client, err error) { l.closed <- err }

func runProbe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	msg, _ := cmd.Flags().GetString("message")
	count, _ := cmd.Flags().GetInt("count")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	lc := &lineCollector{lines: make(chan string, count), closed: make(chan error, 1)}
	c, err := client.Dial("tcp", addr, timeout, lc)
	if err != nil {
		return err
	}
	defer c.Close()

	for i := 0; i < count; i++ {
		if err := c.Write([]byte(msg + "\n")); err != nil {
			return errors.Wrap(err, "probe: write")
		}
	}

	deadline := time.After(timeout)
	for i := 0; i < count; i++ {
		select {
		case line := <-lc.lines:
			fmt.Fprint(cmd.OutOrStdout(), line)
		case err := <-lc.closed:
			return errors.Wrapf(err, "probe: connection closed after %d of %d lines", i, count)
		case <-deadline:
			return errors.Errorf("probe: timed out after %d of %d lines", i, count)
		}
	}
	return nil
}
