// Package remote serves loxy evaluation over gRPC. The service is described
// by an embedded .proto parsed at startup; requests and responses travel as
// dynamic messages, so no generated code is involved.
package remote

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

//go:embed loxy.proto
var protoSource string

const (
	protoFile   = "loxy.proto"
	ServiceName = "loxy.v1.Interpreter"

	runMethod   = "Run"
	closeMethod = "CloseSession"
)

// Schema holds the parsed service and method descriptors.
type Schema struct {
	Service *desc.ServiceDescriptor
	Run     *desc.MethodDescriptor
	Close   *desc.MethodDescriptor
}

var (
	schemaOnce   sync.Once
	loadedSchema *Schema
	schemaErr    error
)

// LoadSchema parses the embedded proto once and returns the descriptors.
func LoadSchema() (*Schema, error) {
	schemaOnce.Do(func() {
		loadedSchema, schemaErr = parseSchema(protoSource)
	})
	return loadedSchema, schemaErr
}

func parseSchema(source string) (*Schema, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFile: source}),
	}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", protoFile, err)
	}

	sd := fds[0].FindService(ServiceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in %s", ServiceName, protoFile)
	}
	s := &Schema{
		Service: sd,
		Run:     sd.FindMethodByName(runMethod),
		Close:   sd.FindMethodByName(closeMethod),
	}
	if s.Run == nil || s.Close == nil {
		return nil, fmt.Errorf("%s: service %s is missing %s or %s", protoFile, ServiceName, runMethod, closeMethod)
	}
	return s, nil
}

// fullMethod returns the /package.Service/Method path used on the wire.
func fullMethod(md *desc.MethodDescriptor) string {
	return "/" + md.GetService().GetFullyQualifiedName() + "/" + md.GetName()
}

func newMessage(md *desc.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md.UnwrapMessage())
}

func field(msg *dynamicpb.Message, name string) protoreflect.FieldDescriptor {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("remote: %s has no field %s", msg.Descriptor().FullName(), name))
	}
	return fd
}

func getString(msg *dynamicpb.Message, name string) string {
	return msg.Get(field(msg, name)).String()
}

func setString(msg *dynamicpb.Message, name, value string) {
	msg.Set(field(msg, name), protoreflect.ValueOfString(value))
}

func getBool(msg *dynamicpb.Message, name string) bool {
	return msg.Get(field(msg, name)).Bool()
}

func setBool(msg *dynamicpb.Message, name string, value bool) {
	msg.Set(field(msg, name), protoreflect.ValueOfBool(value))
}

func getStrings(msg *dynamicpb.Message, name string) []string {
	list := msg.Get(field(msg, name)).List()
	out := make([]string, list.Len())
	for i := range out {
		out[i] = list.Get(i).String()
	}
	return out
}

func setStrings(msg *dynamicpb.Message, name string, values []string) {
	list := msg.Mutable(field(msg, name)).List()
	for _, v := range values {
		list.Append(protoreflect.ValueOfString(v))
	}
}
