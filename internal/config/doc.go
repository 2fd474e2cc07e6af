// Package config provides configuration loading for frametree.
//
// The configuration is stored in frametree.json. Every setting may be
// overridden by a FRAMETREE_* environment variable; S3 credentials are
// only ever read from the environment.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7070",
//	    "metrics": true
//	  },
//	  "snapshot": {
//	    "backend": "s3",
//	    "bucket": "frames",
//	    "prefix": "ci/",
//	    "region": "eu-west-1"
//	  },
//	  "maxFragmentDepth": 16
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger()
package config
