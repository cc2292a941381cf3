// Package source opens flag catalogs from the local filesystem or from S3.
//
//	client, err := source.NewS3Client(ctx, s3cfg)
//	if err != nil {
//		return err
//	}
//	rc, err := source.New(source.WithS3Client(client)).Open(ctx, "s3://config/features.yaml")
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//	catalog, err := feature.LoadCatalog(rc)
//
// Missing files and objects both report ErrNotFound.
package source
