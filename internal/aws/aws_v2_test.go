// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateAWS keeps the developer's shared config out of the tests.
func isolateAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", dir+"/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", dir+"/credentials")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestOptions(t *testing.T) {
	var o options
	for _, opt := range []Option{
		WithProfile("ops"),
		WithRegion("eu-west-1"),
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
	} {
		opt(&o)
	}

	assert.Equal(t, "ops", o.profile)
	assert.Equal(t, "eu-west-1", o.region)
	require.NotNil(t, o.retryer)
	assert.NotNil(t, o.retryer())
}

func TestLoadAWSConfig_WithRegion(t *testing.T) {
	isolateAWS(t)

	cfg, err := LoadAWSConfig(context.Background(),
		WithRegion("us-west-2"),
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
	)
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestLoadAWSConfig_MissingProfile(t *testing.T) {
	isolateAWS(t)

	_, err := LoadAWSConfig(context.Background(), WithProfile("does-not-exist"))
	assert.Error(t, err)
}

func TestNewS3_WithEndpoint(t *testing.T) {
	isolateAWS(t)
	cfg, err := LoadAWSConfig(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)

	client := NewS3(cfg, WithEndpoint("http://localhost:9000"))
	assert.IsType(t, &s3v2.Client{}, client)

	var o s3v2.Options
	WithEndpoint("http://localhost:9000")(&o)
	assert.Equal(t, "http://localhost:9000", awsv2.ToString(o.BaseEndpoint))
	assert.True(t, o.UsePathStyle)

	o = s3v2.Options{}
	WithEndpoint("")(&o)
	assert.Nil(t, o.BaseEndpoint)
	assert.False(t, o.UsePathStyle)
}
