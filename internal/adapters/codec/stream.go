package codec

import (
	"bytes"
	"io"
	"sync"

	"github.com/iamNilotpal/press/internal/core/domain"
	"github.com/iamNilotpal/press/pkg/errors"
)

// writerCompressor adapts any io.WriteCloser-style codec writer to the
// incremental StreamCompressor contract. The codec writes into a pending
// buffer owned by the stream; each call drains at most len(out) bytes so
// callers always observe bounded output.
type writerCompressor struct {
	algo      domain.Algorithm
	codec     io.WriteCloser
	pending   bytes.Buffer
	finishing bool
	closed    bool
}

func newWriterCompressor(algo domain.Algorithm, open func(io.Writer) (io.WriteCloser, error)) (*writerCompressor, error) {
	wc := &writerCompressor{algo: algo}

	w, err := open(&wc.pending)
	if err != nil {
		return nil, errors.Wrap(errors.KindCompression, algo.String(), "create compress stream", err)
	}

	wc.codec = w
	return wc, nil
}

func (wc *writerCompressor) Write(in, out []byte) (int, int, error) {
	if wc.finishing || wc.closed {
		return 0, 0, errors.New(errors.KindStreamFinished, wc.algo.String(), "stream write")
	}

	// Backpressure: leftover output from a previous call goes out first.
	produced := wc.drain(out)
	if produced == len(out) && len(in) > 0 {
		return 0, produced, nil
	}

	consumed := 0
	if len(in) > 0 {
		if _, err := wc.codec.Write(in); err != nil {
			return 0, produced, errors.Wrap(errors.KindCompression, wc.algo.String(), "stream write", err)
		}
		consumed = len(in)
	}

	produced += wc.drain(out[produced:])
	return consumed, produced, nil
}

func (wc *writerCompressor) Finish(out []byte) (int, error) {
	if wc.closed {
		return 0, errors.New(errors.KindStreamFinished, wc.algo.String(), "stream finish")
	}

	if !wc.finishing {
		wc.finishing = true
		// Close flushes the codec trailer into the pending buffer.
		if err := wc.codec.Close(); err != nil {
			return 0, errors.Wrap(errors.KindCompression, wc.algo.String(), "stream finish", err)
		}
	}

	return wc.drain(out), nil
}

func (wc *writerCompressor) Close() error {
	if wc.closed {
		return nil
	}
	wc.closed = true

	if !wc.finishing {
		wc.finishing = true
		wc.codec.Close()
	}

	wc.pending.Reset()
	return nil
}

func (wc *writerCompressor) drain(out []byte) int {
	if wc.pending.Len() == 0 || len(out) == 0 {
		return 0
	}
	n, _ := wc.pending.Read(out)
	return n
}

// pipeDecompressor adapts any io.Reader-style codec reader to the
// incremental StreamDecompressor contract. Input is pushed through a pipe
// into a decode goroutine; decoded bytes accumulate in a guarded buffer
// that never blocks the decoder, which rules out pipe deadlock within a
// single call. The goroutine pattern follows the pipe-backed compress
// readers used elsewhere in the ecosystem.
type pipeDecompressor struct {
	algo domain.Algorithm
	pw   *io.PipeWriter

	mu  sync.Mutex
	out bytes.Buffer // decoded output, guarded by mu

	done      chan struct{}
	decodeErr error // written before done closes
	cleanEOF  bool  // decoder reached its own end marker

	wroteInput bool
	finished   bool
	closed     bool
}

func newPipeDecompressor(algo domain.Algorithm, open func(io.Reader) (io.Reader, error)) *pipeDecompressor {
	pr, pw := io.Pipe()
	pd := &pipeDecompressor{
		algo: algo,
		pw:   pw,
		done: make(chan struct{}),
	}

	go pd.run(pr, open)
	return pd
}

func (pd *pipeDecompressor) run(pr *io.PipeReader, open func(io.Reader) (io.Reader, error)) {
	defer close(pd.done)

	// Header-reading constructors block until the first Write arrives,
	// which is why construction happens here and not in the caller.
	r, err := open(pr)
	if err != nil {
		pd.decodeErr = err
		pr.CloseWithError(err)
		return
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			pd.mu.Lock()
			pd.out.Write(buf[:n])
			pd.mu.Unlock()
		}

		if err == io.EOF {
			pd.cleanEOF = true
			// Unblock any writer still pushing trailing bytes.
			pr.Close()
			return
		}
		if err != nil {
			pd.decodeErr = err
			pr.CloseWithError(err)
			return
		}
	}
}

func (pd *pipeDecompressor) Write(in, out []byte) (int, int, error) {
	if pd.finished || pd.closed {
		return 0, 0, errors.New(errors.KindStreamFinished, pd.algo.String(), "stream write")
	}

	if len(in) > 0 {
		pd.wroteInput = true
		if _, err := pd.pw.Write(in); err != nil {
			// The decode goroutine is gone: either it errored or the
			// logical stream already ended and this is trailing data.
			<-pd.done
			if pd.decodeErr != nil {
				return 0, 0, pd.classify("stream write", pd.decodeErr)
			}
			return 0, 0, errors.New(errors.KindCorruptedData, pd.algo.String(), "stream write: data past end of stream")
		}
	}

	return len(in), pd.drain(out), nil
}

func (pd *pipeDecompressor) Finish() error {
	if pd.closed {
		return errors.New(errors.KindStreamFinished, pd.algo.String(), "stream finish")
	}
	if pd.finished {
		return nil
	}
	pd.finished = true

	pd.pw.Close()
	<-pd.done

	if pd.decodeErr != nil {
		return pd.classify("stream finish", pd.decodeErr)
	}
	if !pd.cleanEOF || !pd.wroteInput {
		// The decoder never saw the container's end marker.
		return errors.New(errors.KindUnexpectedEOF, pd.algo.String(), "stream finish: stream ended before end marker")
	}

	return nil
}

func (pd *pipeDecompressor) Drain(out []byte) (int, error) {
	if pd.closed {
		return 0, errors.New(errors.KindStreamFinished, pd.algo.String(), "stream drain")
	}
	return pd.drain(out), nil
}

func (pd *pipeDecompressor) Close() error {
	if pd.closed {
		return nil
	}
	pd.closed = true

	pd.pw.CloseWithError(io.ErrClosedPipe)
	<-pd.done

	pd.mu.Lock()
	pd.out.Reset()
	pd.mu.Unlock()
	return nil
}

func (pd *pipeDecompressor) drain(out []byte) int {
	if len(out) == 0 {
		return 0
	}

	pd.mu.Lock()
	defer pd.mu.Unlock()

	if pd.out.Len() == 0 {
		return 0
	}
	n, _ := pd.out.Read(out)
	return n
}

func (pd *pipeDecompressor) classify(op string, err error) error {
	kind := errors.KindCorruptedData
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		kind = errors.KindUnexpectedEOF
	}
	return errors.Wrap(kind, pd.algo.String(), op, err)
}
