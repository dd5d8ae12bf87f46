// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tfctl/datadiff/internal/cacheutil"
	"github.com/tfctl/datadiff/internal/log"
)

// ObjectAPI is the part of the S3 client documents are read through.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	s3v2.ListObjectVersionsAPIClient
}

// Object addresses one S3 object, optionally pinned to a version.
//
// Version is either a concrete version id or a relative reference "~N",
// meaning N versions before the latest.
type Object struct {
	Bucket  string
	Key     string
	Version string
}

// ErrNotS3 is returned by ParseURL for anything but an s3:// URL.
var ErrNotS3 = errors.New("not an s3 url")

// ParseURL parses s3://bucket/key[?versionId=ID].
func ParseURL(raw string) (Object, error) {
	if !strings.HasPrefix(raw, "s3://") {
		return Object{}, ErrNotS3
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Object{}, fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}

	obj := Object{
		Bucket:  u.Host,
		Key:     strings.TrimPrefix(u.Path, "/"),
		Version: u.Query().Get("versionId"),
	}
	if obj.Bucket == "" || obj.Key == "" {
		return Object{}, fmt.Errorf("invalid s3 url %q: bucket and key are required", raw)
	}
	return obj, nil
}

func (o Object) String() string {
	s := "s3://" + o.Bucket + "/" + o.Key
	if o.Version != "" {
		s += "?versionId=" + o.Version
	}
	return s
}

// relative returns N for a "~N" version reference.
func (o Object) relative() (int, bool) {
	if !strings.HasPrefix(o.Version, "~") {
		return 0, false
	}
	n, err := strconv.Atoi(o.Version[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ResolveVersion turns a relative "~N" version into a concrete version id by
// listing the object's versions newest first. Versions older than the most
// recent delete marker are ignored. Concrete versions are returned unchanged.
func ResolveVersion(ctx context.Context, api ObjectAPI, obj Object) (Object, error) {
	back, ok := obj.relative()
	if !ok {
		return obj, nil
	}

	paginator := s3v2.NewListObjectVersionsPaginator(api, &s3v2.ListObjectVersionsInput{
		Bucket: awsv2.String(obj.Bucket),
		Prefix: awsv2.String(obj.Key),
	})

	var versions []types.ObjectVersion
	var lastDelete types.DeleteMarkerEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return obj, fmt.Errorf("failed to list object versions: %w", err)
		}
		for _, v := range page.Versions {
			// The prefix also matches sibling keys such as lock files.
			if awsv2.ToString(v.Key) == obj.Key && v.VersionId != nil {
				versions = append(versions, v)
			}
		}
		for _, d := range page.DeleteMarkers {
			if awsv2.ToString(d.Key) != obj.Key || d.LastModified == nil {
				continue
			}
			if lastDelete.LastModified == nil || d.LastModified.After(*lastDelete.LastModified) {
				lastDelete = d
			}
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return awsv2.ToTime(versions[i].LastModified).After(awsv2.ToTime(versions[j].LastModified))
	})
	if lastDelete.LastModified != nil {
		live := versions[:0]
		for _, v := range versions {
			if !awsv2.ToTime(v.LastModified).Before(*lastDelete.LastModified) {
				live = append(live, v)
			}
		}
		versions = live
	}

	if back >= len(versions) {
		return obj, fmt.Errorf("%s has %d versions, cannot go back %d", obj.Key, len(versions), back)
	}
	obj.Version = awsv2.ToString(versions[back].VersionId)
	log.Debugf("resolved %s~%d to version %s", obj.Key, back, obj.Version)
	return obj, nil
}

// Fetch returns the body of obj. Bodies of pinned versions are immutable, so
// they are served from and written to the disk cache.
func Fetch(ctx context.Context, api ObjectAPI, obj Object) ([]byte, error) {
	obj, err := ResolveVersion(ctx, api, obj)
	if err != nil {
		return nil, err
	}

	cacheDirs := []string{"s3", obj.Bucket}
	cacheKey := cacheutil.Key(obj.Bucket, obj.Key, obj.Version)
	if obj.Version != "" {
		if entry, ok := cacheutil.Read(cacheDirs, cacheKey); ok {
			return entry.Data, nil
		}
	}

	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(obj.Bucket),
		Key:    awsv2.String(obj.Key),
	}
	if obj.Version != "" {
		input.VersionId = awsv2.String(obj.Version)
	}

	result, err := api.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object %s: %w", obj, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if obj.Version != "" {
		if err := cacheutil.Write(cacheDirs, cacheKey, data); err != nil {
			log.WithError(err).Warnf("error writing %s to cache", obj)
		}
	}
	return data, nil
}
