package k8s

import (
	"os"
	"path/filepath"

	xe "github.com/kevintatou/sparktest/pkg/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// detect *kubernetes.Clientset.
//
// # It searches kubeconfig from
//
// - `~/.kube/config`
//
// - environmental variable `KUBECONFIG`
//
// - the file found first from the kubeconfigSearchPath (like `-kubeconfig` flag)
//
// The later one wins.
// When no files are found from above, it tries to use in-cluster config.
func ConnectToK8s(kubeconfigSearchPath ...string) (*kubernetes.Clientset, error) {
	kubeconfig := FindKubeconfig(homedir.HomeDir(), os.Getenv("KUBECONFIG"), kubeconfigSearchPath...)

	var config *rest.Config
	var err error
	if kubeconfig == "" {
		// fallback: try in-cluster
		config, err = rest.InClusterConfig()
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, xe.Wrap(err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return clientset, nil
}

// FindKubeconfig decides which kubeconfig file should be used.
//
// It returns empty string when no files are found.
func FindKubeconfig(home string, envKubeconfig string, searchPath ...string) string {
	isFile := func(p string) bool {
		s, err := os.Stat(p)
		return err == nil && !s.IsDir()
	}

	kubeconfig := ""

	// priority 1 (least): ~/.kube/config
	if home != "" {
		if p := filepath.Join(home, ".kube", "config"); isFile(p) {
			kubeconfig = p
		}
	}

	// priority 2: envvar KUBECONFIG
	if envKubeconfig != "" && isFile(envKubeconfig) {
		kubeconfig = envKubeconfig
	}

	// priority 3 (most): search path
	for _, sp := range searchPath {
		if sp != "" && isFile(sp) {
			kubeconfig = sp
			break
		}
	}

	return kubeconfig
}
