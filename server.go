// SPDX-FileCopyrightText: 2026 The xvcd Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/xmidt-org/chronon"
	"go.uber.org/fx"
)

const (
	// DefaultPollInterval is the deadline applied to every blocking accept
	// and idle read, so the loop re-checks the termination flag after each
	// blocking call returns.  A termination request is therefore observed
	// within one such interval.
	DefaultPollInterval = 250 * time.Millisecond

	// DefaultVectorBytes is the largest shift vector, in bytes, that the
	// server advertises through getinfo.
	DefaultVectorBytes = 2048

	// maxVerbLen bounds a command verb read; the longest XVC 1.0 verb is
	// "getinfo".
	maxVerbLen = 16

	xvcInfoFormat = "xvcServer_v1.0:%d\n"
)

// deadlineListener is the listener surface Run needs: TCP listeners
// satisfy it.
type deadlineListener interface {
	net.Listener
	SetDeadline(time.Time) error
}

// Server runs the XVC wire loop.  It serves one connection at a time and
// delegates shift and clock commands to the activated driver.  The loop
// exits promptly once the termination flag is set, the listener is
// closed, or an unrecoverable network error occurs.
type Server struct {
	logger  Logger
	verbose Verbose
	clock   chronon.Clock
	flag    *TerminationFlag

	activator *Activator

	pollInterval time.Duration
	vectorBytes  int
}

func NewServer(l Logger, v Verbose, c chronon.Clock, f *TerminationFlag, a *Activator) *Server {
	return &Server{
		logger:       l,
		verbose:      v,
		clock:        c,
		flag:         f,
		activator:    a,
		pollInterval: DefaultPollInterval,
		vectorBytes:  DefaultVectorBytes,
	}
}

// Run accepts and serves connections on l until termination is requested.
// Run takes ownership of the listener and closes it on return.
func (s *Server) Run(l net.Listener) error {
	defer l.Close()

	dl, ok := l.(deadlineListener)
	if !ok {
		return fmt.Errorf("listener %T does not support deadlines", l)
	}

	for {
		if s.flag.Requested() {
			return nil
		}

		if err := dl.SetDeadline(s.clock.Now().Add(s.pollInterval)); err != nil {
			return err
		}

		conn, err := l.Accept()
		if err != nil {
			if isTimeout(err) {
				continue
			}

			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			return err
		}

		s.verbose.Printf("accepted connection from %s", conn.RemoteAddr())
		if err := s.serve(conn); err != nil {
			s.logger.Printf("connection from %s failed: %s", conn.RemoteAddr(), err)
		}

		conn.Close()
	}
}

// serve answers XVC commands on one connection until the peer hangs up,
// the command stream breaks, or termination is requested.
func (s *Server) serve(conn net.Conn) error {
	d := s.activator.Active()
	if d == nil {
		return errors.New("no driver is activated")
	}

	shifter, _ := d.(Shifter)
	clockSetter, _ := d.(ClockSetter)
	br := bufio.NewReader(conn)

	for {
		if s.flag.Requested() {
			return nil
		}

		conn.SetReadDeadline(s.clock.Now().Add(s.pollInterval))
		verb, err := readVerb(br)
		if err != nil {
			if isTimeout(err) {
				continue
			}

			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		// the command header has arrived; read its payload under a
		// longer deadline so slow peers are not cut off mid-command
		conn.SetReadDeadline(s.clock.Now().Add(10 * s.pollInterval))

		switch verb {
		case "getinfo":
			if _, err := fmt.Fprintf(conn, xvcInfoFormat, s.vectorBytes); err != nil {
				return err
			}

			s.verbose.Printf("getinfo: vector limit %d bytes", s.vectorBytes)

		case "settck":
			var buf [4]byte
			if _, err := io.ReadFull(br, buf[:]); err != nil {
				return err
			}

			period := int(binary.LittleEndian.Uint32(buf[:]))
			if clockSetter != nil {
				period = clockSetter.SetClockPeriod(period)
			}

			binary.LittleEndian.PutUint32(buf[:], uint32(period))
			if _, err := conn.Write(buf[:]); err != nil {
				return err
			}

			s.verbose.Printf("settck: %d ns", period)

		case "shift":
			if shifter == nil {
				return fmt.Errorf("driver %q can not shift vectors", d.Name())
			}

			var hdr [4]byte
			if _, err := io.ReadFull(br, hdr[:]); err != nil {
				return err
			}

			numBits := int(binary.LittleEndian.Uint32(hdr[:]))
			numBytes := (numBits + 7) / 8
			if numBytes > s.vectorBytes {
				return fmt.Errorf("shift vector of %d bits exceeds the advertised %d byte limit", numBits, s.vectorBytes)
			}

			tms := make([]byte, numBytes)
			tdi := make([]byte, numBytes)
			if _, err := io.ReadFull(br, tms); err != nil {
				return err
			}
			if _, err := io.ReadFull(br, tdi); err != nil {
				return err
			}

			tdo, err := shifter.Shift(numBits, tms, tdi)
			if err != nil {
				return fmt.Errorf("driver %q failed a %d bit shift: %w", d.Name(), numBits, err)
			}

			if _, err := conn.Write(tdo); err != nil {
				return err
			}

			s.verbose.Printf("shift: %d bits", numBits)

		default:
			return fmt.Errorf("unrecognized command %q", verb)
		}
	}
}

// readVerb consumes bytes up to and including the ':' command terminator
// and returns the verb before it.
func readVerb(br *bufio.Reader) (string, error) {
	verb, err := br.ReadString(':')
	if err != nil {
		if len(verb) > 0 && isTimeout(err) {
			// don't silently drop a partially received command
			return "", fmt.Errorf("timed out after partial command %q", verb)
		}

		return "", err
	}

	verb = verb[:len(verb)-1]
	if len(verb) > maxVerbLen {
		return "", fmt.Errorf("command verb %q is too long", verb[:maxVerbLen])
	}

	return verb, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func provideServer() fx.Option {
	return fx.Options(
		fx.Provide(
			func() chronon.Clock {
				return chronon.SystemClock()
			},
			NewServer,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, sh fx.Shutdowner, cl CommandLine, logger Logger, s *Server) {
				var l net.Listener
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						var err error
						l, err = net.Listen("tcp", cl.Listen)
						if err != nil {
							return err
						}

						logger.Printf("listening for XVC connections at %s", l.Addr())
						go func() {
							defer sh.Shutdown()
							if err := s.Run(l); err != nil {
								logger.Printf("server error: %s", err)
							}
						}()

						return nil
					},
					OnStop: func(context.Context) error {
						if err := l.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
							return err
						}

						return nil
					},
				})
			},
		),
	)
}
