package main

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/bloom"
	"github.com/kaspanet/spvwire/infrastructure/logger"
	"github.com/kaspanet/spvwire/util/random"
	"github.com/kaspanet/spvwire/wire"
)

// session sends the fixed message sequence to one peer and logs whatever the
// peer sends back until it goes quiet.
type session struct {
	conn        net.Conn
	address     string
	net         wire.BitcoinNet
	filter      *bloom.Filter
	getDataList []*chainhash.Hash
	startHeight int32
	delay       time.Duration
	readTimeout time.Duration
	reader      *bufio.Reader
}

func newSession(cfg *configFlags, conn net.Conn, address string, filter *bloom.Filter) *session {
	getDataList := make([]*chainhash.Hash, len(cfg.getDataList))
	copy(getDataList, cfg.getDataList)
	return &session{
		conn:        conn,
		address:     address,
		net:         cfg.NetParams().Net,
		filter:      filter,
		getDataList: getDataList,
		startHeight: cfg.StartHeight,
		delay:       cfg.Delay,
		readTimeout: cfg.ReadTimeout,
		reader:      bufio.NewReaderSize(conn, cfg.ReadBufferSize),
	}
}

// outgoing returns the messages sent to the peer, in order.
func (s *session) outgoing() ([]wire.Message, error) {
	nonce, err := random.Uint64()
	if err != nil {
		return nil, err
	}
	version := wire.NewMsgVersion(localNetAddress(s.conn), peerNetAddress(s.address),
		nonce, s.startHeight)

	getData := wire.NewMsgGetData()
	for _, hash := range s.getDataList {
		err := getData.AddInvVect(wire.NewInvVect(wire.InvTypeFilteredBlock, hash))
		if err != nil {
			return nil, err
		}
	}

	filterLoad := s.filter.MsgFilterLoad()
	if filterLoad == nil {
		return nil, errors.New("the bloom filter isn't loaded")
	}

	return []wire.Message{
		version,
		wire.NewMsgVerAck(),
		filterLoad,
		getData,
	}, nil
}

func (s *session) run() error {
	defer logger.LogAndMeasureExecutionTime(log, "session with "+s.address)()

	messages, err := s.outgoing()
	if err != nil {
		return err
	}
	for i, msg := range messages {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}
		err := s.send(msg)
		if err != nil {
			return err
		}
	}

	return s.receive()
}

func (s *session) send(msg wire.Message) error {
	buf, err := wire.Assemble(s.net, msg.Command(), msg)
	if err != nil {
		return errors.Wrapf(err, "error assembling %s", msg.Command())
	}

	_, err = s.conn.Write(buf)
	if err != nil {
		return errors.Wrapf(err, "error sending %s to %s", msg.Command(), s.address)
	}
	log.Infof("Sent %s (%d bytes) to %s", msg.Command(), len(buf), s.address)
	log.Debugf("%s", spew.Sdump(buf))
	return nil
}

// receive reads messages until the peer closes the connection or stays
// silent for readTimeout. Messages with an unknown command or from another
// network are skipped.
func (s *session) receive() error {
	for {
		err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		if err != nil {
			return errors.WithStack(err)
		}

		msg, payload, err := wire.ReadMessage(s.reader, wire.ProtocolVersion, s.net)
		if err != nil {
			if isDone(err) {
				log.Infof("Done reading from %s", s.address)
				return nil
			}
			if isSkippable(err) {
				log.Warnf("Skipped a message from %s: %s", s.address, err)
				continue
			}
			return errors.Wrapf(err, "error reading from %s", s.address)
		}

		log.Infof("Received %s (%d byte payload) from %s", msg.Command(), len(payload), s.address)
		log.Debugf("%s", spew.Sdump(payload))
		log.Tracef("%s", spew.Sdump(msg))

		if ping, ok := msg.(*wire.MsgPing); ok {
			err := s.send(wire.NewMsgPong(ping.Nonce))
			if err != nil {
				return err
			}
		}
	}
}

// isDone returns whether err means the peer has nothing more to say.
func isDone(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// isSkippable returns whether the stream is still in sync after err. This is
// the case for every error raised after the payload was read, including
// payloads that don't decode, such as a version without the reserved byte.
func isSkippable(err error) bool {
	return errors.Is(err, wire.ErrUnknownCommand) ||
		errors.Is(err, wire.ErrUnknownNetwork) ||
		errors.Is(err, wire.ErrChecksumMismatch) ||
		errors.Is(err, wire.ErrMalformedPayload)
}

// localNetAddress returns the address conn is bound to, or the unspecified
// address when it isn't a TCP connection.
func localNetAddress(conn net.Conn) *wire.NetAddress {
	if tcpAddr, ok := conn.LocalAddr().(*net.TCPAddr); ok {
		return wire.NewNetAddress(tcpAddr, wire.DefaultServices)
	}
	return wire.NewNetAddressIPPort(nil, 0, wire.DefaultServices)
}

// peerNetAddress returns the address the peer was dialed at. Host names
// aren't resolved, they are announced as the unspecified address.
func peerNetAddress(address string) *wire.NetAddress {
	host, portString, err := net.SplitHostPort(address)
	if err != nil {
		return wire.NewNetAddressIPPort(nil, 0, 0)
	}
	port, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		port = 0
	}
	return wire.NewNetAddressIPPort(net.ParseIP(host), uint16(port), 0)
}
