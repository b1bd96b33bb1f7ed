// Command tfcrypt encrypts and decrypts framed Twofish messages and
// exchanges them with a peer over QUIC.
//
//	tfcrypt encrypt [-x] [-k key] < plain > cipher
//	tfcrypt decrypt [-x] [-k key] < cipher > plain
//	tfcrypt serve   [-listen addr]
//	tfcrypt send    [-peer addr] < message
//
// Settings not given as flags come from TWOFISH_* variables or a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/TheusHen/TwoFish/twofish/config"
	"github.com/TheusHen/TwoFish/twofish/frame"
	"github.com/TheusHen/TwoFish/twofish/transport"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("tfcrypt: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	envFile := fs.String("env", ".env", "optional .env file")
	key := fs.String("k", "", "key (overrides TWOFISH_KEY)")
	useHex := fs.Bool("x", false, "hex transport encoding")
	listen := fs.String("listen", "", "listen address (overrides TWOFISH_LISTEN)")
	peer := fs.String("peer", "", "peer address (overrides TWOFISH_PEER)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *key != "" {
		cfg.Key = *key
	}
	if *useHex {
		cfg.Hex = true
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	if *peer != "" {
		cfg.PeerAddr = *peer
	}

	switch cmd {
	case "encrypt", "decrypt":
		err = crypt(cfg, cmd == "decrypt")
	case "serve":
		err = serve(cfg)
	case "send":
		err = send(cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tfcrypt encrypt|decrypt|serve|send [flags]")
}

func crypt(cfg *config.Config, decrypt bool) error {
	codec, err := frame.NewCodec([]byte(cfg.Key), cfg.CodecOptions())
	if err != nil {
		return err
	}
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	var out []byte
	if decrypt {
		out, err = codec.Decrypt(trimNewline(in, cfg.Hex), cfg.Hex)
	} else {
		out, err = codec.Encrypt(in, cfg.Hex)
	}
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return err
	}
	if cfg.Hex && !decrypt {
		fmt.Println()
	}
	return nil
}

// trimNewline drops the line ending a shell pipeline adds to hex input.
func trimNewline(b []byte, hex bool) []byte {
	if !hex {
		return b
	}
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ep := transport.NewEndpoint([]byte(cfg.Key), cfg.ChannelConfig())
	if err := ep.Listen(cfg.ListenAddr); err != nil {
		return err
	}
	defer ep.Close()
	log.Printf("listening on %s (%s)", ep.ListenAddr(), cfg)

	for {
		ch, err := ep.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go handle(ch)
	}
}

func handle(ch *transport.Channel) {
	defer ch.Close()
	for {
		msg, err := ch.Receive()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("receive: %v", err)
			}
			return
		}
		log.Printf("message (%d bytes): %q", len(msg), msg)
		if err := ch.Send([]byte("ack")); err != nil {
			log.Printf("ack: %v", err)
			return
		}
	}
}

func send(cfg *config.Config) error {
	if cfg.PeerAddr == "" {
		return fmt.Errorf("no peer address: set -peer or %s", config.EnvPeer)
	}
	msg, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ep := transport.NewEndpoint([]byte(cfg.Key), cfg.ChannelConfig())
	ch, err := ep.Dial(ctx, cfg.PeerAddr)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Send(msg); err != nil {
		return err
	}
	reply, err := ch.Receive()
	if err != nil {
		return err
	}
	log.Printf("sent %d bytes to %s, peer replied %q", len(msg), cfg.PeerAddr, reply)
	return nil
}
