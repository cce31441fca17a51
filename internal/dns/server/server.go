// Package server implements C8: the UDP/TCP listener and request
// dispatcher that ties the query resolver, update executor, and response
// cache together into a running DNS server.
package server

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/core/services"
	"github.com/ZeusWPI/ZNS/internal/wire"
)

const (
	udpMaxDatagram = 512
	ednsReplySize  = 1232
	udpWorkers     = 16
)

// Server owns the UDP socket, the TCP listener, and the collaborators
// needed to answer a decoded request: the query resolver (C6, which also
// authorizes AXFR via C5) and the update executor (C7, which authorizes via
// C5 on its own precheck).
type Server struct {
	Zone     domain.Name
	Address  string
	Port     int
	Resolver *services.QueryResolver
	Update   *services.UpdateExecutor
	Cache    *responseCache
	Metrics  *metrics
	Logger   *slog.Logger
}

func New(zone domain.Name, address string, port int, resolver *services.QueryResolver, update *services.UpdateExecutor, cache *responseCache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Zone:     zone,
		Address:  address,
		Port:     port,
		Resolver: resolver,
		Update:   update,
		Cache:    cache,
		Metrics:  newMetrics(),
		Logger:   logger,
	}
}

// Run starts the UDP and TCP listeners and blocks until ctx is cancelled or
// either listener fails to start.
func (s *Server) Run(ctx context.Context) error {
	udpAddr := &net.UDPAddr{IP: net.ParseIP(s.Address), Port: s.Port}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("server: listen udp: %w", err)
	}

	tcpLn, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.Address, s.Port))
	if err != nil {
		udpConn.Close()
		return fmt.Errorf("server: listen tcp: %w", err)
	}

	s.Logger.Info("zns listening", "address", s.Address, "port", s.Port, "zone", s.Zone.String())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.serveUDP(ctx, udpConn)
	}()
	go func() {
		defer wg.Done()
		s.serveTCP(ctx, tcpLn)
	}()

	<-ctx.Done()
	udpConn.Close()
	tcpLn.Close()
	wg.Wait()
	return ctx.Err()
}

type udpJob struct {
	data []byte
	addr *net.UDPAddr
}

// serveUDP runs the receive loop on its own goroutine and fans received
// packets out to a fixed worker pool that decodes and answers them, so one
// slow signature verification never blocks the socket's receive buffer
// from draining.
func (s *Server) serveUDP(ctx context.Context, conn *net.UDPConn) {
	jobs := make(chan udpJob, 256)
	var workers sync.WaitGroup
	workers.Add(udpWorkers)
	for i := 0; i < udpWorkers; i++ {
		go func() {
			defer workers.Done()
			for job := range jobs {
				resp := s.handleRequest(ctx, job.data, false)
				if resp == nil {
					continue
				}
				if _, err := conn.WriteToUDP(resp, job.addr); err != nil {
					s.Logger.Warn("udp write failed", "err", err, "addr", job.addr)
				}
			}
		}()
	}

	buf := make([]byte, wire.MaxMessageSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case jobs <- udpJob{data: data, addr: addr}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	workers.Wait()
}

// serveTCP accepts connections and spawns one goroutine per connection,
// each framing messages with a 16-bit big-endian length prefix in both
// directions until the peer closes or a read fails.
func (s *Server) serveTCP(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		go s.handleTCPConn(ctx, conn)
	}
}

func (s *Server) handleTCPConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	var lenBuf [2]byte
	for {
		if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
			return
		}
		n := binary.BigEndian.Uint16(lenBuf[:])
		msgBuf := make([]byte, n)
		if _, err := io.ReadFull(conn, msgBuf); err != nil {
			return
		}

		resp := s.handleRequest(ctx, msgBuf, true)
		if resp == nil {
			return
		}
		out := make([]byte, 2+len(resp))
		binary.BigEndian.PutUint16(out[:2], uint16(len(resp)))
		copy(out[2:], resp)
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

// handleRequest decodes raw, dispatches it, encodes the response, and
// applies UDP truncation. It never panics: a decode failure still produces
// the header-only FORMERR response spec.md §4.8 requires.
func (s *Server) handleRequest(ctx context.Context, raw []byte, isTCP bool) []byte {
	start := time.Now()
	reqID := uuid.NewString()[:8]
	logger := s.Logger.With("req", reqID)

	msg, err := wire.DecodeMessage(raw)
	if err != nil {
		logger.Warn("parse failure", "err", err)
		s.Metrics.rcodesTotal.WithLabelValues("FORMERR").Inc()
		return encodeFormErr(raw)
	}

	maxSize := udpMaxDatagram
	if size, ok := ednsRequestSize(&msg); ok && size > maxSize {
		maxSize = size
	}

	resp := s.dispatch(ctx, &msg, raw, isTCP, logger)

	w, err := wire.EncodeMessage(resp)
	if err != nil {
		logger.Error("encode failure", "err", err)
		return encodeFormErr(raw)
	}
	out := append([]byte(nil), w.Bytes()...)
	wire.PutWriter(w)

	if !isTCP && len(out) > maxSize {
		resp.Header.TC = true
		resp.Answer, resp.Authority, resp.Additional = nil, nil, nil
		resp.Header.ANCount, resp.Header.NSCount, resp.Header.ARCount = 0, 0, 0
		tw, err := wire.EncodeMessage(resp)
		if err == nil {
			out = append([]byte(nil), tw.Bytes()...)
			wire.PutWriter(tw)
		}
	}

	logger.Info("handled request",
		"opcode", opcodeName(msg.Header.Opcode),
		"rcode", rcodeName(resp.Header.RCode),
		"tcp", isTCP,
		"duration", time.Since(start))
	s.Metrics.requestLatency.Observe(time.Since(start).Seconds())
	return out
}

// dispatch classifies the request by opcode and builds the full response
// message, including the exact flag-assembly law (QR+AA set, Z+RA cleared,
// RD preserved, TC left to the caller's truncation decision).
func (s *Server) dispatch(ctx context.Context, msg *domain.Message, raw []byte, isTCP bool, logger *slog.Logger) domain.Message {
	resp := domain.Message{Header: msg.Header}
	if len(msg.Question) > 0 {
		resp.Question = []domain.Question{msg.Question[0]}
	}

	var rcode uint8
	var err error

	switch msg.Header.Opcode {
	case domain.OpcodeQuery:
		err = s.handleQuery(ctx, msg, raw, isTCP, &resp)
	case domain.OpcodeUpdate:
		err = s.handleUpdate(ctx, msg, raw, &resp)
	default:
		err = &domain.DNSError{Kind: domain.ErrUnsupported, Op: "dispatch: unsupported opcode"}
	}

	if err != nil {
		rcode = rcodeOf(err)
		logger.Warn("request failed", "err", err, "rcode", rcode)
		s.Metrics.rcodesTotal.WithLabelValues(rcodeName(rcode)).Inc()
	} else {
		rcode = domain.RcodeNoError
		s.Metrics.rcodesTotal.WithLabelValues("NOERROR").Inc()
	}
	s.Metrics.queriesTotal.WithLabelValues(opcodeName(msg.Header.Opcode)).Inc()

	resp.Header.SetResponse(rcode)
	resp.Header.QDCount = uint16(len(resp.Question))
	resp.Header.ANCount = uint16(len(resp.Answer))
	resp.Header.NSCount = uint16(len(resp.Authority))
	resp.Header.ARCount = uint16(len(resp.Additional))
	return resp
}

func (s *Server) handleQuery(ctx context.Context, msg *domain.Message, raw []byte, isTCP bool, resp *domain.Message) error {
	if len(msg.Question) != 1 {
		return domain.ParseErrorf("dispatch: query requires exactly one question")
	}
	q := msg.Question[0]

	if q.QType == domain.TypeAXFR {
		if !isTCP {
			return domain.RefusedErrorf("dispatch: AXFR requires TCP")
		}
		rrs, err := s.Resolver.HandleAXFR(ctx, msg, raw)
		if err != nil {
			return err
		}
		resp.Answer = rrs
		return nil
	}

	key := cacheKey(q)
	if s.Cache != nil {
		if cached, ok := s.Cache.get(ctx, key); ok {
			s.Metrics.cacheHits.Inc()
			resp.Answer = cached
			s.appendEDNS(msg, resp)
			return nil
		}
		s.Metrics.cacheMisses.Inc()
	}

	rrs, err := s.Resolver.ResolveQuestion(ctx, q)
	if err != nil {
		return err
	}
	resp.Answer = rrs
	if s.Cache != nil {
		s.Cache.set(ctx, key, rrs)
	}
	s.appendEDNS(msg, resp)
	return nil
}

func (s *Server) handleUpdate(ctx context.Context, msg *domain.Message, raw []byte, resp *domain.Message) error {
	if err := s.Update.Execute(ctx, msg, raw); err != nil {
		return err
	}
	// Success: the response echoes the request's sections unchanged apart
	// from RCODE, per spec.md §4.7.
	resp.Question = msg.Question
	resp.Answer = msg.Answer
	resp.Authority = msg.Authority
	resp.Additional = msg.Additional
	if s.Cache != nil {
		s.Cache.clear(ctx)
	}
	return nil
}

// appendEDNS echoes an OPT pseudo-RR at a fixed reply size when the request
// carried one, per SPEC_FULL.md §10.
func (s *Server) appendEDNS(msg *domain.Message, resp *domain.Message) {
	if _, ok := ednsRequestSize(msg); ok {
		resp.Additional = append(resp.Additional, domain.RR{
			Name:  domain.Name{},
			Type:  domain.TypeOPT,
			Class: domain.Class(ednsReplySize),
			RData: []byte{},
		})
	}
}

// ednsRequestSize reports the UDP payload size advertised by a trailing OPT
// record in Additional, if present. OPT repurposes the RR class field to
// carry this size (RFC 6891 §6.1.2).
func ednsRequestSize(msg *domain.Message) (int, bool) {
	if len(msg.Additional) == 0 {
		return 0, false
	}
	last := msg.Additional[len(msg.Additional)-1]
	if last.Type != domain.TypeOPT {
		return 0, false
	}
	return int(last.Class), true
}

func cacheKey(q domain.Question) string {
	return fmt.Sprintf("%s|%d|%d", q.QName.String(), q.QType, q.QClass)
}

func rcodeOf(err error) uint8 {
	if dnsErr, ok := err.(*domain.DNSError); ok {
		return dnsErr.RCode()
	}
	return domain.RcodeServFail
}

func opcodeName(op domain.Opcode) string {
	switch op {
	case domain.OpcodeQuery:
		return "QUERY"
	case domain.OpcodeUpdate:
		return "UPDATE"
	default:
		return fmt.Sprintf("OPCODE%d", op)
	}
}

func rcodeName(rcode uint8) string {
	switch rcode {
	case domain.RcodeNoError:
		return "NOERROR"
	case domain.RcodeFormErr:
		return "FORMERR"
	case domain.RcodeServFail:
		return "SERVFAIL"
	case domain.RcodeNXDomain:
		return "NXDOMAIN"
	case domain.RcodeNotImp:
		return "NOTIMP"
	case domain.RcodeRefused:
		return "REFUSED"
	case domain.RcodeNotAuth:
		return "NOTAUTH"
	case domain.RcodeNotZone:
		return "NOTZONE"
	default:
		return fmt.Sprintf("RCODE%d", rcode)
	}
}

// encodeFormErr builds the catastrophic-failure response: id preserved if
// readable else 0, every count zeroed, RCODE=FORMERR.
func encodeFormErr(raw []byte) []byte {
	var id uint16
	if len(raw) >= 2 {
		id = binary.BigEndian.Uint16(raw[:2])
	}
	h := domain.Header{ID: id}
	h.SetResponse(domain.RcodeFormErr)
	w, err := wire.EncodeMessage(domain.Message{Header: h})
	if err != nil {
		return nil
	}
	defer wire.PutWriter(w)
	return append([]byte(nil), w.Bytes()...)
}
