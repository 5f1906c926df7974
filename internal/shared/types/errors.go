package types

import "errors"

var (
	ErrNoProfilesFound  = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrUnknownProfile   = errors.New("profile not found in AWS configuration")
	ErrNoCredentials    = errors.New("unable to locate AWS credentials. Please configure AWS CLI first")
	ErrInvalidDate      = errors.New("dates must be in YYYY-MM-DD format")
	ErrStartInFuture    = errors.New("start date cannot be in the future")
	ErrInvertedRange    = errors.New("start date must be before end date")
	ErrRangeTooLarge    = errors.New("date range cannot exceed 365 days")
	ErrInvalidOutput    = errors.New("output must be one of: table, csv, tsv")
	ErrInvalidThreshold = errors.New("threshold must be a decimal number")
)
