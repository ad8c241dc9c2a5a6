// Package swaggerui serves generated swagger documents and the swagger-ui
// pages that browse them.
//
//	gen, err := swagger.NewGenerator(e, cfg)
//	if err != nil {
//		return err
//	}
//	ui, err := swaggerui.New(gen, swaggerui.Config{CacheDocuments: true})
//	if err != nil {
//		return err
//	}
//	mux.Handle("/swagger/", ui)
//
// Documents are served as JSON at <base>/docs/{version} and as YAML with
// ?format=yaml. The YAML output keeps the key order of the JSON output.
//
// The UI page is an html/template read from the asset file system. It
// receives the page title, the swagger-ui-dist location, the
// SwaggerUIBundle options (including one discovery URL per version) and
// the OAuth2 client settings.
//
// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
package swaggerui
