package mock

import (
	"bufio"
	"net"
	"sync"
)

// L3roamdServer answers "get_clients" on a unix socket with Reply.
type L3roamdServer struct {
	Reply string

	ln net.Listener
	wg sync.WaitGroup
}

func (l *L3roamdServer) Start(path string) error {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	l.ln = ln
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			cmd, err := bufio.NewReader(conn).ReadString('\n')
			if err == nil && cmd == "get_clients\n" {
				_, _ = conn.Write([]byte(l.Reply))
			}
			_ = conn.Close()
		}
	}()
	return nil
}

func (l *L3roamdServer) Close() {
	_ = l.ln.Close()
	l.wg.Wait()
}
