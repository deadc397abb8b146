package api

import (
	"github.com/example/file-storage-api/domain/file"
	"github.com/example/file-storage-api/modules/storage"
	"github.com/graphql-go/graphql"
)

// createDateLayout is the RFC 2822 form used for createDate.
const createDateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

var fileInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name:        "FileInfo",
	Description: "Metadata of a stored file",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(file.Info).ID, nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(file.Info).Name, nil
			},
		},
		"createDate": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(file.Info).CreatedAt.Format(createDateLayout), nil
			},
		},
		"fileSize": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(file.Info).FileSize), nil
			},
		},
	},
})

// newSchema builds the query and mutation schema over files.
func newSchema(files storage.FilesPort) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"listFiles": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(fileInfoType))),
				Description: "Metadata of every stored file",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					infos, err := files.ListFiles(p.Context)
					if err != nil {
						return nil, withCode(err)
					}
					return infos, nil
				},
			},
			"getFile": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Base64 contents of the file with the given id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					contents, err := files.GetFile(p.Context, id)
					if err != nil {
						return nil, withCode(err)
					}
					return contents, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"putFile": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Stores a file from base64 contents and returns its new id",
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"contents": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					contents, _ := p.Args["contents"].(string)
					id, err := files.PutFile(p.Context, name, contents)
					if err != nil {
						return nil, withCode(err)
					}
					return id, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
