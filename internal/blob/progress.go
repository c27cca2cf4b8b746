package blob

import "io"

// progressReader wraps a reader and reports cumulative transferred
// bytes after every successful Read.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	fn          ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		p.fn(p.transferred, p.total)
	}
	return n, err
}
