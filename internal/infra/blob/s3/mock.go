package s3

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // etag compatibility only
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewMockForTests returns a Store whose client talks to an in-process fake
// bucket. It supports the Head/Get/Put/Delete/ListObjectsV2 calls Store makes.
func NewMockForTests() *Store {
	bucket := &fakeBucket{objects: make(map[string]fakeObject)}
	store, err := New(context.Background(), Config{
		Bucket:          "warburtons-reports",
		Region:          "eu-west-2",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIAMOCK",
		SecretAccessKey: "mock-secret",
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: bucket}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	if err != nil {
		panic(err)
	}
	return store
}

type fakeObject struct {
	body        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

func (o fakeObject) etag() string {
	sum := md5.Sum(o.body) //nolint:gosec
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// fakeBucket is a path-style S3 endpoint backed by a map.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (b *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// path is /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	query := req.URL.Query()
	if req.Method == http.MethodGet && query.Get("list-type") == "2" {
		return b.list(query.Get("prefix")), nil
	}
	obj, found := b.objects[key]
	switch req.Method {
	case http.MethodHead, http.MethodGet:
		if !found {
			return respond(http.StatusNotFound, nil, nil), nil
		}
		header := http.Header{
			"Content-Length": {strconv.Itoa(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {obj.etag()},
			"Last-Modified":  {obj.modified.Format(http.TimeFormat)},
		}
		for k, v := range obj.metadata {
			header.Set("X-Amz-Meta-"+k, v)
		}
		if req.Method == http.MethodHead {
			return respond(http.StatusOK, header, nil), nil
		}
		return respond(http.StatusOK, header, obj.body), nil
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if decoded, ok := decodeAWSChunked(body); ok {
			body = decoded
		}
		md := make(map[string]string)
		for k, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(k), "x-amz-meta-") && len(v) > 0 {
				md[strings.ToLower(k[len("x-amz-meta-"):])] = v[0]
			}
		}
		b.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), metadata: md, modified: time.Now().UTC().Truncate(time.Second)}
		return respond(http.StatusOK, http.Header{"Etag": {b.objects[key].etag()}}, nil), nil
	case http.MethodDelete:
		delete(b.objects, key)
		return respond(http.StatusNoContent, nil, nil), nil
	}
	return respond(http.StatusNotImplemented, nil, nil), nil
}

func (b *fakeBucket) list(prefix string) *http.Response {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, k := range keys {
		obj := b.objects[k]
		fmt.Fprintf(&sb, "<Contents><Key>%s</Key><Size>%d</Size><ETag>%s</ETag><LastModified>%s</LastModified></Contents>",
			k, len(obj.body), obj.etag(), obj.modified.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "<KeyCount>%d</KeyCount></ListBucketResult>", len(keys))
	return respond(http.StatusOK, http.Header{"Content-Type": {"application/xml"}}, []byte(sb.String()))
}

func respond(status int, header http.Header, body []byte) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// decodeAWSChunked unwraps a single-chunk aws-chunked payload:
// <hex-size>\r\n<data>\r\n0\r\n[trailers]
func decodeAWSChunked(b []byte) ([]byte, bool) {
	header, rest, ok := bytes.Cut(b, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	size, err := strconv.ParseInt(string(bytes.SplitN(header, []byte(";"), 2)[0]), 16, 64)
	if err != nil || size < 0 || int64(len(rest)) < size+2 {
		return nil, false
	}
	data, tail := rest[:size], rest[size:]
	if !bytes.HasPrefix(tail, []byte("\r\n0")) {
		return nil, false
	}
	return data, true
}
